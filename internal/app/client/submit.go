package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/exp/slog"

	"ecomapa/internal/domain/geo"
	"ecomapa/internal/domain/point"
)

// ErrPartialUpload means the point was created but at least one image
// upload failed. The SubmitResult carries the created point's ID and the
// per-image errors, so the caller can retry just the failed uploads.
var ErrPartialUpload = errors.New("some image uploads failed")

type pointCreator interface {
	Create(ctx context.Context, req point.CreateRequest) (point.Point, error)
	UploadImage(ctx context.Context, pointID int, img point.Image, content []byte) error
}

// ImageUploadError is one failed upload out of a submission.
type ImageUploadError struct {
	Index    int
	Filename string
	Err      error
}

// SubmitResult reports a finished submission: the created point plus the
// per-image upload outcome.
type SubmitResult struct {
	Point       point.Point
	Uploaded    int
	ImageErrors []ImageUploadError
}

// Wizard drives the multi-step submission of one collection point draft.
// Steps are basic-info, address and operating-hours; the address step is
// skipped in both directions when the draft entered with explicit
// coordinates. The draft is preserved across any failure so nothing has to
// be re-entered.
type Wizard struct {
	draft     *point.Draft
	validator point.Validator
	geocoder  geo.Geocoder
	points    pointCreator
	log       *slog.Logger

	step      point.Step
	confirmed map[point.Step]bool

	mu         sync.Mutex
	submitting bool

	readImage func(point.Image) ([]byte, error)
}

func NewWizard(draft *point.Draft, validator point.Validator, geocoder geo.Geocoder, points pointCreator, log *slog.Logger) *Wizard {
	return &Wizard{
		draft:     draft,
		validator: validator,
		geocoder:  geocoder,
		points:    points,
		log:       log,
		step:      point.StepBasicInfo,
		confirmed: make(map[point.Step]bool),
		readImage: readImageFile,
	}
}

// Draft exposes the wizard's draft for the form layer to edit in place.
func (w *Wizard) Draft() *point.Draft {
	return w.draft
}

// Step returns the current wizard step.
func (w *Wizard) Step() point.Step {
	return w.step
}

// Next validates the current step and advances. Editing a step drops its
// confirmation implicitly because Submit re-validates anything unconfirmed.
func (w *Wizard) Next() error {
	if err := w.validator.ValidateStep(w.draft, w.step); err != nil {
		return err
	}
	w.confirmed[w.step] = true

	switch w.step {
	case point.StepBasicInfo:
		if w.draft.HasCoordinates() {
			w.step = point.StepHours
		} else {
			w.step = point.StepAddress
		}
	case point.StepAddress:
		w.step = point.StepHours
	case point.StepHours:
		// Last step; Submit is the terminal action
	}
	return nil
}

// Back moves to the previous step, honoring the address skip.
func (w *Wizard) Back() {
	switch w.step {
	case point.StepHours:
		if w.draft.HasCoordinates() {
			w.step = point.StepBasicInfo
		} else {
			w.step = point.StepAddress
		}
	case point.StepAddress:
		w.step = point.StepBasicInfo
	}
}

// Submit re-validates the draft, resolves coordinates (directly or through
// the geocoder), encodes the operating hours, creates the point and then
// uploads every image concurrently. Geocoding failure aborts before any
// creation call; a name conflict returns the wizard to the basic-info step.
func (w *Wizard) Submit(ctx context.Context) (*SubmitResult, error) {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return nil, fmt.Errorf("submission already in progress")
	}
	w.submitting = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	for _, step := range []point.Step{point.StepBasicInfo, point.StepAddress, point.StepHours} {
		if w.confirmed[step] {
			continue
		}
		if err := w.validator.ValidateStep(w.draft, step); err != nil {
			w.step = step
			return nil, err
		}
	}

	coords, err := w.resolveCoordinates(ctx)
	if err != nil {
		return nil, err
	}

	req := point.CreateRequest{
		Name:           strings.TrimSpace(w.draft.Name),
		Description:    w.draft.Description,
		Types:          w.draft.Types,
		Latitude:       geo.Format6(coords.Latitude),
		Longitude:      geo.Format6(coords.Longitude),
		OperatingHours: w.draft.Hours.Encode(),
	}

	created, err := w.points.Create(ctx, req)
	if err != nil {
		if errors.Is(err, point.ErrNameTaken) {
			w.step = point.StepBasicInfo
		}
		return nil, err
	}

	result := &SubmitResult{Point: created}
	if len(w.draft.Images) == 0 {
		return result, nil
	}

	// Fire every upload, wait for all of them to settle
	uploadErrs := make([]error, len(w.draft.Images))
	var wg sync.WaitGroup
	for i, img := range w.draft.Images {
		wg.Add(1)
		go func(i int, img point.Image) {
			defer wg.Done()
			content, err := w.readImage(img)
			if err != nil {
				uploadErrs[i] = fmt.Errorf("failed to read image: %w", err)
				return
			}
			uploadErrs[i] = w.points.UploadImage(ctx, created.ID, img, content)
		}(i, img)
	}
	wg.Wait()

	for i, err := range uploadErrs {
		if err != nil {
			result.ImageErrors = append(result.ImageErrors, ImageUploadError{
				Index:    i,
				Filename: w.draft.Images[i].Filename,
				Err:      err,
			})
		} else {
			result.Uploaded++
		}
	}

	if len(result.ImageErrors) > 0 {
		w.log.Debug("submission finished with failed uploads",
			"point_id", created.ID,
			"uploaded", result.Uploaded,
			"failed", len(result.ImageErrors),
		)
		return result, fmt.Errorf("%w: point %d created, %d of %d uploads failed",
			ErrPartialUpload, created.ID, len(result.ImageErrors), len(w.draft.Images))
	}

	return result, nil
}

// resolveCoordinates rounds explicit coordinates to six decimals, or makes
// exactly one forward-geocode call for address-only drafts.
func (w *Wizard) resolveCoordinates(ctx context.Context) (geo.Coordinates, error) {
	if w.draft.HasCoordinates() {
		return geo.Coordinates{
			Latitude:  geo.Round6(w.draft.Coordinates.Latitude),
			Longitude: geo.Round6(w.draft.Coordinates.Longitude),
		}, nil
	}
	return w.geocoder.Forward(ctx, w.draft.Address)
}

func readImageFile(img point.Image) ([]byte, error) {
	path := strings.TrimPrefix(img.URI, "file://")
	return os.ReadFile(path)
}
