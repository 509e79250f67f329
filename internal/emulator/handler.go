package emulator

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"irconsole"
	"irconsole/internal/logger"
)

// Handler wires the emulated device's HTTP/WS surface to storage and the hub.
type Handler struct {
	store Store
	hub   *Hub
	log   *logger.Logger

	mu   sync.Mutex
	last *irconsole.ObservedSignal
	seq  int
}

// NewHandler constructs the HTTP layer with its dependencies.
func NewHandler(store Store, hub *Hub, log *logger.Logger) *Handler {
	return &Handler{store: store, hub: hub, log: log}
}

// InitRoutes builds the Gin router with the full device API registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	router.GET("/saved", h.listSaved)
	router.GET("/send", h.send)
	router.GET("/save", h.save)
	router.POST("/save", h.save)
	router.POST("/saved/rename", h.renameSaved)
	router.POST("/saved/delete", h.deleteSaved)
	router.POST("/saved/import", h.importSaved)

	// Persistent channel (HTTP upgrade) — same port
	router.GET("/ws", h.wsConnect)

	return router
}

// SetLast records the most recent capture for replay to new ws clients.
func (h *Handler) SetLast(sig irconsole.ObservedSignal) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	h.last = &sig
}

// Last returns the most recent capture and its sequence number.
func (h *Handler) Last() (irconsole.ObservedSignal, int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last == nil {
		return irconsole.ObservedSignal{}, 0, false
	}
	return *h.last, h.seq, true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      List stored codes
// @Tags         saved
// @Produce      json
// @Success      200  {array}   irconsole.SavedCommand
// @Failure      500  {object}  map[string]string
// @Router       /saved [get]
func (h *Handler) listSaved(c *gin.Context) {
	items, err := h.store.List(c.Request.Context())
	if err != nil {
		h.log.Errorw("saved_list_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load saved codes"})
		return
	}
	if items == nil {
		items = []irconsole.SavedCommand{}
	}
	c.JSON(http.StatusOK, items)
}

// @Summary      Transmit a code
// @Description  One-shot transmit: type=nec with hex data and bit length.
// @Tags         send
// @Produce      plain
// @Param        type    query  string  true  "Protocol type (nec)"
// @Param        data    query  string  true  "Hex payload"
// @Param        length  query  int     true  "Bit length (1-128)"
// @Success      200  {string}  string
// @Failure      400  {string}  string
// @Router       /send [get]
func (h *Handler) send(c *gin.Context) {
	sendType := c.Query("type")
	data := c.Query("data")
	length, _ := strconv.Atoi(c.DefaultQuery("length", "32"))

	if sendType != "nec" {
		c.String(http.StatusBadRequest, "Unsupported type")
		return
	}
	if !validSendRequest(data, length) {
		c.String(http.StatusBadRequest, "Invalid hex data or length")
		return
	}
	h.log.Infow("tx_nec", "data", data, "bits", length)
	c.String(http.StatusOK, "OK: sent NEC 0x"+strings.ToUpper(data))
}

// @Summary      Store a code
// @Tags         saved
// @Produce      json
// @Param        protocol  query  string  true   "Protocol name"
// @Param        value     query  string  true   "Hex payload"
// @Param        length    query  int     false  "Bit length (default 32)"
// @Param        name      query  string  false  "Display name"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /save [get]
func (h *Handler) save(c *gin.Context) {
	protocol := c.Query("protocol")
	value := c.Query("value")
	name := c.Query("name")
	bits, _ := strconv.Atoi(c.DefaultQuery("length", "32"))

	if reason := savedCodeReason(protocol, value, bits); reason != "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": reason})
		return
	}

	index, err := h.store.Insert(c.Request.Context(), irconsole.SavedCommand{
		Name: name, Protocol: protocol, Value: value, Bits: bits,
	})
	if err != nil {
		h.log.Errorw("save_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "storage failure"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "index": index})
}

// @Summary      Rename a stored code
// @Tags         saved
// @Produce      json
// @Param        index  query  int     true  "Code index"
// @Param        name   query  string  true  "New name"
// @Success      200  {object}  map[string]interface{}
// @Router       /saved/rename [post]
func (h *Handler) renameSaved(c *gin.Context) {
	index, err := strconv.Atoi(c.Query("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid index"})
		return
	}
	ok, err := h.store.Rename(c.Request.Context(), index, c.Query("name"))
	if err != nil {
		h.log.Errorw("rename_failed", "index", index, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "storage failure"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": ok})
}

// @Summary      Delete a stored code
// @Tags         saved
// @Produce      json
// @Param        index  query  int  true  "Code index"
// @Success      200  {object}  map[string]interface{}
// @Router       /saved/delete [post]
func (h *Handler) deleteSaved(c *gin.Context) {
	index, err := strconv.Atoi(c.Query("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid index"})
		return
	}
	ok, err := h.store.Delete(c.Request.Context(), index)
	if err != nil {
		h.log.Errorw("delete_failed", "index", index, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "storage failure"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": ok})
}

// importEntry mirrors the saved-command shape with optional bits.
type importEntry struct {
	Name     string `json:"name"`
	Protocol string `json:"protocol"`
	Value    string `json:"value"`
	Bits     *int   `json:"bits"`
}

type importError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

const maxImportErrors = 12

// @Summary      Bulk import stored codes
// @Description  Body must be a JSON array of saved-command objects. Invalid entries are skipped with per-entry reasons.
// @Tags         saved
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "ok, imported, skipped, errors"
// @Failure      400  {object}  map[string]interface{}
// @Router       /saved/import [post]
func (h *Handler) importSaved(c *gin.Context) {
	var raw json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid JSON"})
		return
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Expected JSON array"})
		return
	}

	imported, skipped := 0, 0
	var errs []importError
	skip := func(i int, reason string) {
		skipped++
		if len(errs) < maxImportErrors {
			errs = append(errs, importError{Index: i, Reason: reason})
		}
	}

	for i, entryRaw := range entries {
		trimmed := strings.TrimSpace(string(entryRaw))
		if !strings.HasPrefix(trimmed, "{") {
			skip(i, "Entry is not an object")
			continue
		}
		var e importEntry
		if err := json.Unmarshal(entryRaw, &e); err != nil {
			skip(i, "Entry is not an object")
			continue
		}
		bits := irconsole.DefaultBits
		if e.Bits != nil {
			bits = *e.Bits
		}
		if reason := savedCodeReason(e.Protocol, e.Value, bits); reason != "" {
			skip(i, reason)
			continue
		}
		if _, err := h.store.Insert(c.Request.Context(), irconsole.SavedCommand{
			Name: e.Name, Protocol: e.Protocol, Value: e.Value, Bits: bits,
		}); err != nil {
			h.log.Errorw("import_insert_failed", "entry", i, "err", err)
			skip(i, "Storage failure")
			continue
		}
		imported++
	}

	resp := gin.H{"ok": true, "imported": imported, "skipped": skipped}
	if len(errs) > 0 {
		resp["errors"] = errs
	}
	c.JSON(http.StatusOK, resp)
}
