package points

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"ecomapa/internal/domain/point"
	"ecomapa/internal/mockserver/drf"
	"ecomapa/internal/mockserver/middleware/auth"
	"ecomapa/internal/mockserver/store"
)

const pageSize = 10

type Handler struct {
	store     *store.Store
	log       *slog.Logger
	protected huma.Middlewares
}

func NewHandler(st *store.Store, log *slog.Logger, protected huma.Middlewares) *Handler {
	return &Handler{store: st, log: log, protected: protected}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.mySubmitsOp(), h.mySubmits)
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.deleteOp(), h.delete)
	huma.Register(api, h.categoriesOp(), h.categories)
}

func (h *Handler) create(ctx context.Context, input *createInput) (*createOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, drf.Detail(http.StatusUnauthorized, store.DetailNotValid)
	}

	req := input.Body
	fields := map[string][]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = []string{"This field is required."}
	}
	if len(req.Types) == 0 {
		fields["types"] = []string{"This list may not be empty."}
	}
	if _, err := strconv.ParseFloat(req.Latitude, 64); err != nil {
		fields["latitude"] = []string{"A valid number is required."}
	}
	if _, err := strconv.ParseFloat(req.Longitude, 64); err != nil {
		fields["longitude"] = []string{"A valid number is required."}
	}
	if len(fields) > 0 {
		return nil, drf.Fields(http.StatusBadRequest, fields)
	}

	created, err := h.store.CreatePoint(userID, req)
	if err != nil {
		if errors.Is(err, store.ErrNameTaken) {
			return nil, drf.Fields(http.StatusBadRequest, map[string][]string{
				"name": {"collection point with this name already exists."},
			})
		}
		return nil, err
	}

	h.log.Info("collection point created", "id", created.ID, "owner", userID)
	return &createOutput{Body: created.Point}, nil
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	var types []int
	if input.Types != "" {
		for _, raw := range strings.Split(input.Types, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return nil, drf.Fields(http.StatusBadRequest, map[string][]string{
					"types": {"Enter comma separated numbers."},
				})
			}
			types = append(types, id)
		}
	}
	return &listOutput{Body: h.store.Points(types)}, nil
}

func (h *Handler) mySubmits(ctx context.Context, input *mySubmitsInput) (*mySubmitsOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, drf.Detail(http.StatusUnauthorized, store.DetailNotValid)
	}

	all := h.store.PointsByOwner(userID)
	page := input.Page
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	if start > 0 && start >= len(all) {
		return nil, drf.Detail(http.StatusNotFound, "Invalid page.")
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	results := all[start:end]
	if results == nil {
		results = []point.Point{}
	}

	out := point.Page{Count: len(all), Results: results}
	if end < len(all) {
		next := pageURL(page + 1)
		out.Next = &next
	}
	if page > 1 {
		prev := pageURL(page - 1)
		out.Previous = &prev
	}
	return &mySubmitsOutput{Body: out}, nil
}

func pageURL(page int) string {
	return fmt.Sprintf("/eco-points/collection-points/my-submits/?page=%d", page)
}

func (h *Handler) get(ctx context.Context, input *getInput) (*getOutput, error) {
	p, ok := h.store.PointByID(input.ID)
	if !ok {
		return nil, drf.Detail(http.StatusNotFound, "Not found.")
	}
	return &getOutput{Body: p}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*deleteOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, drf.Detail(http.StatusUnauthorized, store.DetailNotValid)
	}

	err := h.store.DeletePoint(input.ID, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, drf.Detail(http.StatusNotFound, "Not found.")
	case errors.Is(err, store.ErrForbidden):
		return nil, drf.Detail(http.StatusForbidden, "You do not have permission to perform this action.")
	case err != nil:
		return nil, err
	}
	return &deleteOutput{}, nil
}

func (h *Handler) categories(ctx context.Context, _ *categoriesInput) (*categoriesOutput, error) {
	return &categoriesOutput{Body: h.store.Categories()}, nil
}
