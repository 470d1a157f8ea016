package apiclient

import (
	"context"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

func (c *Client) Courses(ctx context.Context, token string) ([]entities.Course, error) {
	var resp struct {
		Courses []entities.Course `json:"courses"`
	}
	if err := c.get(ctx, token, "/courses", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Courses, nil
}

// Course returns the course with its units and lessons.
func (c *Client) Course(ctx context.Context, token string, id entities.ID) (*entities.Course, error) {
	var resp struct {
		Course *entities.Course `json:"course"`
	}
	if err := c.get(ctx, token, "/courses/"+pathEscape(id.String()), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Course == nil {
		return nil, &APIError{StatusCode: 404, Message: "Course not found"}
	}
	return resp.Course, nil
}

// Lesson returns one lesson. The body may be bare or wrapped in {lesson}.
func (c *Client) Lesson(ctx context.Context, token string, courseID, lessonID entities.ID) (*entities.Lesson, error) {
	var raw struct {
		entities.Lesson
		Wrapped *entities.Lesson `json:"lesson"`
	}
	path := "/courses/" + pathEscape(courseID.String()) + "/lessons/" + pathEscape(lessonID.String())
	if err := c.get(ctx, token, path, nil, &raw); err != nil {
		return nil, err
	}
	if raw.Wrapped != nil {
		return raw.Wrapped, nil
	}
	return &raw.Lesson, nil
}
