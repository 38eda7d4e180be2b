package syncapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"DewanRaja/internal/kingdom/app/port"
	"DewanRaja/internal/kingdom/entity"
	"DewanRaja/internal/shared/security"
	"DewanRaja/internal/shared/transport"
	"DewanRaja/modules/kit/logx"
)

// Handler serves POST /api/state: "sync" pushes partial row updates into
// the store with a per-row ledger, "fetch" pulls one kingdom's full
// aggregated snapshot. Both require a bearer token resolving to the
// kingdom's owner; authorization fails closed.
type Handler struct {
	repo port.KingdomRepository
	log  logx.Logger
}

func NewHandler(repo port.KingdomRepository, log logx.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/api/state", h.HandleState)
}

func (h *Handler) HandleState(c *gin.Context) {
	uid, ok := h.authenticate(c)
	if !ok {
		return
	}

	var req stateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	switch req.Action {
	case "sync":
		h.handleSync(c, uid, req.Data)
	case "fetch":
		h.handleFetch(c, uid, req.Data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
	}
}

// authenticate resolves the bearer token to a user id. 401 on anything
// less than a valid token.
func (h *Handler) authenticate(c *gin.Context) (int64, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return 0, false
	}
	claims, err := security.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid bearer token"})
		return 0, false
	}
	return claims.Uid, true
}

// authorize checks the kingdom exists and belongs to uid. Store failures
// deny access rather than allowing an unverified write.
func (h *Handler) authorize(c *gin.Context, uid int64, kingdomID entity.KingdomID) bool {
	meta, err := h.repo.GetKingdomMeta(c.Request.Context(), kingdomID)
	if errors.Is(err, entity.ErrKingdomNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "kingdom not found"})
		return false
	}
	if err != nil {
		h.logError(c, "ownership check failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify ownership"})
		return false
	}
	if meta.UserID != uid {
		transport.SetErrorReason(c.Request.Context(), "kingdom ownership mismatch")
		c.JSON(http.StatusForbidden, gin.H{"error": "kingdom does not belong to caller"})
		return false
	}
	return true
}

func (h *Handler) handleSync(c *gin.Context, uid int64, raw json.RawMessage) {
	var data syncData
	if err := json.Unmarshal(raw, &data); err != nil || data.KingdomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sync requires a kingdom id"})
		return
	}
	kingdomID := entity.KingdomID(data.KingdomID)
	if !h.authorize(c, uid, kingdomID) {
		return
	}

	ctx := c.Request.Context()
	var ledger syncLedger

	for _, row := range data.Resources {
		err := h.repo.UpdateResourceRow(ctx, kingdomID, entity.Resource{
			ID:     row.ID,
			Amount: row.Amount,
		})
		ledger.Resources = append(ledger.Resources, outcome(row.ID, err))
	}
	for _, row := range data.Buildings {
		err := h.repo.UpdateBuildingRow(ctx, kingdomID, entity.Building{
			ID:             row.ID,
			Level:          row.Level,
			Status:         entity.ConstructionStatus(row.Status),
			CompletionTime: msToTime(row.CompletionTime),
		})
		ledger.Buildings = append(ledger.Buildings, outcome(row.ID, err))
	}
	for _, row := range data.Troops {
		err := h.repo.UpdateTroopRow(ctx, kingdomID, entity.Troop{
			ID:             row.ID,
			Count:          row.Count,
			Status:         entity.TrainingStatus(row.Status),
			CompletionTime: msToTime(row.CompletionTime),
		})
		ledger.Troops = append(ledger.Troops, outcome(row.ID, err))
	}

	// The kingdom's updated_at bumps even when some rows failed; the
	// client uses it to order subsequent fetches.
	if err := h.repo.TouchKingdom(ctx, kingdomID, time.Now()); err != nil {
		h.logError(c, "touch kingdom failed", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"results":   ledger,
		"timestamp": time.Now().UnixMilli(),
	})
}

func (h *Handler) handleFetch(c *gin.Context, uid int64, raw json.RawMessage) {
	var data fetchData
	if err := json.Unmarshal(raw, &data); err != nil || data.KingdomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fetch requires a kingdom id"})
		return
	}
	kingdomID := entity.KingdomID(data.KingdomID)
	if !h.authorize(c, uid, kingdomID) {
		return
	}

	state, err := h.repo.LoadState(c.Request.Context(), kingdomID)
	if errors.Is(err, entity.ErrKingdomNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "kingdom not found"})
		return
	}
	if err != nil {
		h.logError(c, "fetch load failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load kingdom state"})
		return
	}

	view := state.View()
	view.LastUpdated = time.Now()
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"kingdom":     view.Kingdom,
		"resources":   view.Resources,
		"buildings":   view.Buildings,
		"troops":      view.Troops,
		"attacks":     view.Attacks,
		"lastUpdated": view.LastUpdated.UnixMilli(),
		"timestamp":   time.Now().UnixMilli(),
	})
}

func (h *Handler) logError(c *gin.Context, msg string, err error) {
	if h.log == nil {
		return
	}
	el := logx.BuildErrorLog(err)
	h.log.WithContext(c.Request.Context()).Error(msg,
		zap.String("error", el.Error),
		zap.String("code", el.Code),
		zap.Strings("cause_chain", el.CauseChain),
	)
}

func outcome(id string, err error) rowOutcome {
	if err != nil {
		return rowOutcome{ID: id, OK: false, Error: "row update failed"}
	}
	return rowOutcome{ID: id, OK: true}
}

func msToTime(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms)
	return &t
}
