package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mindgraph-backend/application/services"
	"mindgraph-backend/domain/graph"
	"mindgraph-backend/pkg/auth"
	pkgerrors "mindgraph-backend/pkg/errors"
)

// GraphHandler serves the relationship graph for visualization
type GraphHandler struct {
	service      *services.GraphService
	logger       *zap.Logger
	errorHandler *pkgerrors.ErrorHandler
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(service *services.GraphService, logger *zap.Logger, errorHandler *pkgerrors.ErrorHandler) *GraphHandler {
	return &GraphHandler{
		service:      service,
		logger:       logger,
		errorHandler: errorHandler,
	}
}

// GraphNodeResponse is the wire representation of a graph node
type GraphNodeResponse struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"`
	Label      string  `json:"label"`
	ColorGroup string  `json:"colorGroup,omitempty"`
	Size       float64 `json:"size"`
	Degree     int     `json:"degree"`
}

// GraphEdgeResponse is the wire representation of a graph edge
type GraphEdgeResponse struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Kind   string  `json:"kind"`
	Weight float64 `json:"weight"`
}

// GraphResponse carries the whole pruned graph
type GraphResponse struct {
	Nodes []GraphNodeResponse `json:"nodes"`
	Edges []GraphEdgeResponse `json:"edges"`
}

func toGraphResponse(g *graph.Graph) GraphResponse {
	resp := GraphResponse{
		Nodes: make([]GraphNodeResponse, 0, len(g.Nodes)),
		Edges: make([]GraphEdgeResponse, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		resp.Nodes = append(resp.Nodes, GraphNodeResponse{
			ID:         n.ID,
			Kind:       string(n.Kind),
			Label:      n.Label,
			ColorGroup: n.ColorGroup,
			Size:       n.Size,
			Degree:     n.Degree,
		})
	}
	for _, e := range g.Edges {
		resp.Edges = append(resp.Edges, GraphEdgeResponse{
			Source: e.Source,
			Target: e.Target,
			Kind:   string(e.Kind),
			Weight: e.Weight,
		})
	}
	return resp
}

// GetGraph handles GET /api/v1/graph. The graph is rebuilt from the
// user's full note collection on every call.
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("unauthorized"))
		return
	}

	g, err := h.service.BuildGraph(r.Context(), user.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toGraphResponse(g))
}
