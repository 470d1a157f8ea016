// Package entities contains the client-side mirrors of backend records.
package entities

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID is a backend identifier. The API sends ids either as JSON numbers or as
// strings, so both forms are accepted and kept as text.
type ID string

// UnmarshalJSON accepts "42", 42 and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as text.
func (id ID) String() string {
	return string(id)
}

// Int returns the numeric value of the id, or 0 when it is not numeric.
func (id ID) Int() int {
	n, err := strconv.Atoi(string(id))
	if err != nil {
		return 0
	}
	return n
}

// Contains reports whether ids holds id.
func Contains(ids []ID, id ID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
