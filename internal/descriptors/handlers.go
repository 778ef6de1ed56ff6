package descriptors

import (
	"errors"

	"rapidstor-backend/internal/domain"
	"rapidstor-backend/internal/middleware"
	"rapidstor-backend/internal/mutation"
	"rapidstor-backend/internal/pkg/response"
	"rapidstor-backend/internal/pkg/validation"
	"rapidstor-backend/internal/remote"
	"rapidstor-backend/internal/viewmodel"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles the descriptor routes with their service.
type Handlers struct {
	Service         *Service
	DefaultLocation string
}

// actionRequest is the AJAX payload. Action names and the flat field layout
// are a compatibility contract with the existing front end.
type actionRequest struct {
	Action       string                 `json:"action"`
	LocationID   string                 `json:"locationId"`
	DescriptorID string                 `json:"descriptorId"`
	IDs          []string               `json:"ids"`
	OrderedIDs   []string               `json:"orderedIds"`
	Field        string                 `json:"field"`
	Value        bool                   `json:"value"`
	DealID       string                 `json:"dealId"`
	CoverageID   string                 `json:"coverageId"`
	GroupName    string                 `json:"groupName"`
	Label        string                 `json:"label"`
	Targets      []domain.UpgradeTarget `json:"targets"`
	Descriptors  []domain.Descriptor    `json:"descriptors"`
	Search       string                 `json:"search"`
}

// View GET /api/v1/descriptors — the full table/grouped view model.
func (h *Handlers) View(c *fiber.Ctx) error {
	locationID := h.location(c.Query("location"))
	p := viewmodel.Params{
		Search:      c.Query("search"),
		SortKey:     c.Query("sort"),
		SortDesc:    c.Query("dir") == "desc",
		GroupBySize: c.Query("group") == "1" || c.Query("group") == "true",
	}
	vm, err := h.Service.ViewModel(c.Context(), locationID, p)
	if err != nil {
		return h.viewError(c, err)
	}
	return response.Success(c, "Descriptors loaded", vm, nil)
}

// Audit GET /api/v1/descriptors/audit — recent mutation outcomes.
func (h *Handlers) Audit(c *fiber.Ctx) error {
	store := h.Service.Coordinator.Audit
	if store == nil {
		return response.Error(c, "Audit store not configured", fiber.StatusServiceUnavailable, nil)
	}
	recs, err := store.Recent(c.Context(), h.location(c.Query("location")), c.QueryInt("limit", 50))
	if err != nil {
		return response.Error(c, "Failed to load audit records", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Audit records loaded", recs, nil)
}

// Action POST /api/v1/descriptors/action — the AJAX action surface. Every
// branch answers with the compat {success, message|error, ...} shape.
func (h *Handlers) Action(c *fiber.Ctx) error {
	var req actionRequest
	if err := c.BodyParser(&req); err != nil {
		return actionError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	middleware.SetRouteAction(c, req.Action)
	ctx := c.Context()
	loc := h.location(req.LocationID)

	switch req.Action {
	case "quick_toggle":
		d, err := h.Service.Coordinator.QuickToggle(ctx, loc, req.DescriptorID, req.Field, req.Value)
		if err != nil {
			return h.mutationError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "message": "Descriptor updated", "descriptor": d})

	case "reorder_descriptors":
		res, err := h.Service.Coordinator.Reorder(ctx, loc, req.OrderedIDs)
		if err != nil {
			return h.mutationError(c, err)
		}
		return batchResponse(c, res)

	case "group_descriptors":
		res, err := h.Service.Coordinator.GroupDescriptors(ctx, loc, req.IDs, req.GroupName)
		if err != nil {
			return h.mutationError(c, err)
		}
		return batchResponse(c, res)

	case "batch_update":
		if err := validation.Descriptors(req.Descriptors); err != nil {
			return actionError(c, fiber.StatusBadRequest, err.Error())
		}
		res, err := h.Service.Coordinator.BatchSave(ctx, loc, req.Descriptors)
		if err != nil {
			return h.mutationError(c, err)
		}
		return batchResponse(c, res)

	case "batch_apply":
		update, err := mutation.DecodeFieldUpdate(req.Field, req.Value, req.DealID, req.CoverageID, req.Label, req.Targets)
		if err != nil {
			return actionError(c, fiber.StatusBadRequest, err.Error())
		}
		res, err := h.Service.Coordinator.BatchApply(ctx, loc, req.IDs, update)
		if err != nil {
			return h.mutationError(c, err)
		}
		return batchResponse(c, res)

	case "auto_generate_upsells":
		suggestions, err := h.Service.Coordinator.AutoGenerateUpsells(ctx, loc, req.DescriptorID)
		if err != nil {
			return h.mutationError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":     true,
			"message":     "Suggestions generated (not saved)",
			"suggestions": suggestions,
		})

	case "smart_carousel_off":
		actions, res, err := h.Service.Coordinator.SmartCarouselToggle(ctx, loc)
		if err != nil {
			return h.mutationError(c, err)
		}
		return c.JSON(fiber.Map{
			"success": res.AllSucceeded(),
			"message": res.Summary,
			"actions": actions,
			"result":  res,
		})

	case "delete_descriptor":
		if err := h.Service.Coordinator.Delete(ctx, loc, req.DescriptorID); err != nil {
			return h.mutationError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "message": "Descriptor deleted"})

	case "duplicate_descriptor":
		dup, err := h.Service.Coordinator.Duplicate(ctx, loc, req.DescriptorID)
		if err != nil {
			return h.mutationError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "message": "Descriptor duplicated", "descriptor": dup})

	case "export_descriptors":
		doc, err := h.Service.Export(ctx, loc, req.Search)
		if err != nil {
			return h.mutationError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "message": "Export ready", "export": doc})

	case "get_descriptor":
		v, err := h.Service.Get(ctx, loc, req.DescriptorID)
		if err != nil {
			return h.mutationError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "message": "Descriptor loaded", "descriptor": v})

	default:
		return actionError(c, fiber.StatusBadRequest, "Unknown action")
	}
}

func (h *Handlers) location(requested string) string {
	if requested != "" {
		return requested
	}
	return h.DefaultLocation
}

// mutationError maps the error taxonomy onto the compat shape: stale ids are
// 404, bad input 400, remote trouble 502 with the upstream message relayed.
func (h *Handlers) mutationError(c *fiber.Ctx, err error) error {
	switch {
	case remote.IsNotFound(err):
		return actionError(c, fiber.StatusNotFound, err.Error())
	case validation.IsValidationError(err),
		errors.Is(err, mutation.ErrUnknownToggleField),
		errors.Is(err, mutation.ErrNoItemsSelected),
		errors.Is(err, mutation.ErrGroupNameRequired):
		return actionError(c, fiber.StatusBadRequest, err.Error())
	default:
		var rejected *remote.RejectedError
		var unavailable *remote.UnavailableError
		if errors.As(err, &rejected) || errors.As(err, &unavailable) {
			return actionError(c, fiber.StatusBadGateway, err.Error())
		}
		return actionError(c, fiber.StatusInternalServerError, err.Error())
	}
}

func (h *Handlers) viewError(c *fiber.Ctx, err error) error {
	var unavailable *remote.UnavailableError
	if errors.As(err, &unavailable) {
		return response.Error(c, "Inventory service unavailable", fiber.StatusBadGateway, nil)
	}
	var rejected *remote.RejectedError
	if errors.As(err, &rejected) {
		return response.Error(c, rejected.Error(), fiber.StatusBadGateway, nil)
	}
	return response.Error(c, "Failed to load descriptors", fiber.StatusInternalServerError, nil)
}

func actionError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
}

func batchResponse(c *fiber.Ctx, res *domain.BatchOperationResult) error {
	return c.JSON(fiber.Map{
		"success": res.AllSucceeded(),
		"message": res.Summary,
		"result":  res,
	})
}
