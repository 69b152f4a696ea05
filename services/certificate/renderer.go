package certificate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// RenderRequest is the data contract the external renderer consumes
type RenderRequest struct {
	StudentName    string `json:"student_name"`
	CourseName     string `json:"course_name"`
	InstructorName string `json:"instructor_name"`
	CompletionDate string `json:"completion_date"`
	CertificateID  string `json:"certificate_id"`
}

// Renderer produces the certificate document from the frozen fields. It has no
// side effects on pipeline state; failures surface to the caller unretried.
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) ([]byte, error)
}

// HTTPRenderer calls an external certificate renderer service over HTTP
type HTTPRenderer struct {
	client *resty.Client
	url    string
}

func NewHTTPRenderer(url string, timeout time.Duration) *HTTPRenderer {
	return &HTTPRenderer{
		client: resty.New().SetTimeout(timeout),
		url:    url,
	}
}

func (r *HTTPRenderer) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(r.url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("renderer returned status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
