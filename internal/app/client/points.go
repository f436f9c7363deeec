package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/exp/slog"

	"ecomapa/internal/domain/point"
)

// PointsAPI covers the collection-point endpoints.
type PointsAPI struct {
	session *SessionClient
	log     *slog.Logger
}

func NewPointsAPI(session *SessionClient, log *slog.Logger) *PointsAPI {
	return &PointsAPI{session: session, log: log}
}

// Create submits a new collection point. A name-uniqueness conflict comes
// back as point.ErrNameTaken so the wizard can attribute it to the field.
func (p *PointsAPI) Create(ctx context.Context, req point.CreateRequest) (point.Point, error) {
	resp, err := p.session.Request(ctx, http.MethodPost, "/eco-points/collection-point/", req, nil)
	if err != nil {
		return point.Point{}, err
	}

	var created point.Point
	if err := parseResponse(resp, &created); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.HasFieldError("name") {
			return point.Point{}, fmt.Errorf("%w: %v", point.ErrNameTaken, apiErr.Fields["name"])
		}
		return point.Point{}, fmt.Errorf("failed to create collection point: %w", err)
	}

	p.log.Debug("collection point created", "id", created.ID, "name", created.Name)
	return created, nil
}

// UploadImage posts one image to an already created point as multipart
// form data.
func (p *PointsAPI) UploadImage(ctx context.Context, pointID int, img point.Image, content []byte) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	filename := img.Filename
	if filename == "" {
		filename = "image"
	}
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return fmt.Errorf("failed to build multipart form: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart form: %w", err)
	}

	path := fmt.Sprintf("/eco-points/collection-point/%d/upload_image/", pointID)
	resp, err := p.session.SendRaw(ctx, http.MethodPost, path, buf.Bytes(), writer.FormDataContentType())
	if err != nil {
		return err
	}
	if err := parseResponse(resp, nil); err != nil {
		return fmt.Errorf("failed to upload image %s: %w", filename, err)
	}
	return nil
}

// List fetches collection points for the map view, optionally filtered by
// category.
func (p *PointsAPI) List(ctx context.Context, filter point.ListFilter) ([]point.Point, error) {
	var query url.Values
	if len(filter.Types) > 0 {
		ids := make([]string, 0, len(filter.Types))
		for _, id := range filter.Types {
			ids = append(ids, strconv.Itoa(id))
		}
		query = url.Values{"types": []string{strings.Join(ids, ",")}}
	}

	resp, err := p.session.Request(ctx, http.MethodGet, "/eco-points/collection-point/", nil, query)
	if err != nil {
		return nil, err
	}

	var points []point.Point
	if err := parseResponse(resp, &points); err != nil {
		return nil, fmt.Errorf("failed to list collection points: %w", err)
	}
	return points, nil
}

// MySubmits fetches one page of the authenticated user's submissions.
func (p *PointsAPI) MySubmits(ctx context.Context, page int) (point.Page, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}

	resp, err := p.session.Request(ctx, http.MethodGet, "/eco-points/collection-points/my-submits/", nil, query)
	if err != nil {
		return point.Page{}, err
	}

	var result point.Page
	if err := parseResponse(resp, &result); err != nil {
		return point.Page{}, fmt.Errorf("failed to list submissions: %w", err)
	}
	return result, nil
}

// Get fetches one point's detail, operating hours included.
func (p *PointsAPI) Get(ctx context.Context, id int) (point.Point, error) {
	resp, err := p.session.Request(ctx, http.MethodGet, fmt.Sprintf("/eco-points/collection-points/%d/", id), nil, nil)
	if err != nil {
		return point.Point{}, err
	}

	var result point.Point
	if err := parseResponse(resp, &result); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			return point.Point{}, point.ErrNotFound
		}
		return point.Point{}, fmt.Errorf("failed to load collection point: %w", err)
	}
	return result, nil
}

// Delete removes a point (own submission or staff moderation).
func (p *PointsAPI) Delete(ctx context.Context, id int) error {
	resp, err := p.session.Request(ctx, http.MethodDelete, fmt.Sprintf("/eco-points/collection-points/%d/", id), nil, nil)
	if err != nil {
		return err
	}
	if err := parseResponse(resp, nil); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			return point.ErrNotFound
		}
		return fmt.Errorf("failed to delete collection point: %w", err)
	}
	return nil
}

// Categories fetches the collection types used by filters and the wizard.
func (p *PointsAPI) Categories(ctx context.Context) ([]point.Category, error) {
	resp, err := p.session.Request(ctx, http.MethodGet, "/eco-points/collection-type/", nil, nil)
	if err != nil {
		return nil, err
	}

	var categories []point.Category
	if err := parseResponse(resp, &categories); err != nil {
		return nil, fmt.Errorf("failed to list collection types: %w", err)
	}
	return categories, nil
}
