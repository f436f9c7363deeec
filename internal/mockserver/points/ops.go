package points

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "points-create",
		Method:        http.MethodPost,
		Path:          "/eco-points/collection-point/",
		Summary:       "Create a collection point",
		Tags:          []string{"points"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   h.protected,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "points-list",
		Method:      http.MethodGet,
		Path:        "/eco-points/collection-point/",
		Summary:     "List collection points for the map",
		Tags:        []string{"points"},
		Middlewares: h.protected,
	}
}

func (h *Handler) mySubmitsOp() huma.Operation {
	return huma.Operation{
		OperationID: "points-my-submits",
		Method:      http.MethodGet,
		Path:        "/eco-points/collection-points/my-submits/",
		Summary:     "Paginated list of the caller's submissions",
		Tags:        []string{"points"},
		Middlewares: h.protected,
	}
}

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "points-get",
		Method:      http.MethodGet,
		Path:        "/eco-points/collection-points/{id}/",
		Summary:     "Collection point detail",
		Tags:        []string{"points"},
		Middlewares: h.protected,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID:   "points-delete",
		Method:        http.MethodDelete,
		Path:          "/eco-points/collection-points/{id}/",
		Summary:       "Delete a collection point",
		Tags:          []string{"points"},
		DefaultStatus: http.StatusNoContent,
		Middlewares:   h.protected,
	}
}

func (h *Handler) categoriesOp() huma.Operation {
	return huma.Operation{
		OperationID: "points-categories",
		Method:      http.MethodGet,
		Path:        "/eco-points/collection-type/",
		Summary:     "List collection types",
		Tags:        []string{"points"},
		Middlewares: h.protected,
	}
}
