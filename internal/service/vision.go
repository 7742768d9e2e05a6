package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const analyzePath = "/vision/v3.2/analyze"

var ErrVisionNotConfigured = errors.New("azure computer vision key or endpoint not configured")

// Annotation is the flattened result of an image analysis
type Annotation struct {
	Description string // "a dog sitting on grass."
	Tags        string // "#dog #grass #outdoor"
	Colors      string // "green white"
	Raw         string // Response body as returned by the service
}

// Annotator produces annotations for raw image bytes. A nil result means the
// image could not be annotated.
type Annotator interface {
	Annotate(ctx context.Context, image []byte) *Annotation
}

// analyzeResponse is the subset of the Analyze Image v3.2 response we use
type analyzeResponse struct {
	Description struct {
		Tags     []string `json:"tags"`
		Captions []struct {
			Text       string  `json:"text"`
			Confidence float64 `json:"confidence"`
		} `json:"captions"`
	} `json:"description"`
	Tags  []json.RawMessage `json:"tags"`
	Color struct {
		DominantColors []string `json:"dominantColors"`
	} `json:"color"`
}

type VisionService struct {
	endpoint string
	key      string
	client   *http.Client
}

// NewVisionService creates an Azure Computer Vision client. A zero timeout
// leaves the request bounded only by the caller's context.
func NewVisionService(endpoint, key string, timeout time.Duration) *VisionService {
	return &VisionService{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		key:      key,
		client:   &http.Client{Timeout: timeout},
	}
}

// Annotate analyzes the image and never fails: any error is logged and
// reported as a nil annotation so uploads are not blocked by the service.
func (s *VisionService) Annotate(ctx context.Context, image []byte) *Annotation {
	annotation, err := s.Analyze(ctx, image)
	if err != nil {
		slog.Warn("image annotation failed", "error", err, "size", len(image))
		return nil
	}
	return annotation
}

// Analyze requests captions and dominant colors for the image
func (s *VisionService) Analyze(ctx context.Context, image []byte) (*Annotation, error) {
	if s.endpoint == "" || s.key == "" {
		return nil, ErrVisionNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+analyzePath, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("failed to build analyze request: %w", err)
	}
	// Commas are sent literally, the service does not require them escaped
	req.URL.RawQuery = "visualFeatures=Description,Color"
	req.Header.Set("Ocp-Apim-Subscription-Key", s.key)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyze request failed: %w", err)
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read analyze response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("analyze returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var result analyzeResponse
	err = json.Unmarshal(body, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode analyze response: %w", err)
	}

	return result.annotation(string(body)), nil
}

func (r *analyzeResponse) annotation(raw string) *Annotation {
	a := &Annotation{Raw: raw}

	if len(r.Description.Captions) > 0 && r.Description.Captions[0].Text != "" {
		a.Description = r.Description.Captions[0].Text + "."
	}

	tags := r.Description.Tags
	if len(tags) == 0 {
		tags = topLevelTags(r.Tags)
	}
	if len(tags) > 0 {
		a.Tags = "#" + strings.Join(tags, " #")
	}

	a.Colors = strings.ToLower(strings.Join(r.Color.DominantColors, " "))

	return a
}

// topLevelTags accepts both plain strings and {"name": ...} objects
func topLevelTags(raw []json.RawMessage) []string {
	var tags []string
	for _, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			if name != "" {
				tags = append(tags, name)
			}
			continue
		}

		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.Name != "" {
			tags = append(tags, obj.Name)
		}
	}
	return tags
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
