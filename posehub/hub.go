// Package posehub receives pose frames from external estimators over
// WebSocket and serves the latest frame to the render loop.
package posehub

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/phanxgames/posepaint"
)

// DefaultMaxAge is how long a frame is served before the hub reports no poses.
const DefaultMaxAge = time.Second

// Feed represents a connected pose estimator.
type Feed struct {
	ID        string
	Conn      *websocket.Conn
	Connected time.Time
	LastSeen  time.Time

	mu sync.Mutex
}

// Send sends a message to the feed.
func (f *Feed) Send(msg *Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := msg.Bytes()
	if err != nil {
		return err
	}
	return f.Conn.WriteMessage(websocket.TextMessage, data)
}

// Hub manages pose feed connections. Network goroutines write the latest
// frame under a mutex; Poses hands the render loop a copy. Hub implements
// posepaint.PoseSource.
type Hub struct {
	mu       sync.RWMutex
	feeds    map[string]*Feed
	debug    bool
	maxAge   time.Duration
	latest   []posepaint.Pose
	latestAt time.Time
	from     string

	mode    posepaint.Mode
	hasMode bool

	onPoses func(feedID string, poses []posepaint.Pose)

	// Stats
	messagesReceived atomic.Uint64
	messagesSent     atomic.Uint64
	framesReceived   atomic.Uint64
	parseErrors      atomic.Uint64
}

// NewHub creates an empty hub.
func NewHub(debug bool) *Hub {
	return &Hub{
		feeds:  make(map[string]*Feed),
		debug:  debug,
		maxAge: DefaultMaxAge,
	}
}

// SetMaxAge sets how long a frame stays current. Zero disables expiry.
func (h *Hub) SetMaxAge(d time.Duration) {
	h.mu.Lock()
	h.maxAge = d
	h.mu.Unlock()
}

// OnPoses sets a callback for every received frame. It runs on the
// connection goroutine.
func (h *Hub) OnPoses(callback func(feedID string, poses []posepaint.Pose)) {
	h.mu.Lock()
	h.onPoses = callback
	h.mu.Unlock()
}

// RegisterRoutes registers WebSocket routes on a Fiber app.
func (h *Hub) RegisterRoutes(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/pose", websocket.New(h.handleFeed))
	app.Get("/ws/pose/:id", websocket.New(h.handleFeed))
}

// handleFeed handles a pose feed WebSocket connection.
func (h *Hub) handleFeed(c *websocket.Conn) {
	feedID := c.Params("id")
	if feedID == "" {
		feedID = uuid.NewString()
	}

	feed := &Feed{
		ID:        feedID,
		Conn:      c,
		Connected: time.Now(),
		LastSeen:  time.Now(),
	}

	h.mu.Lock()
	h.feeds[feedID] = feed
	count := len(h.feeds)
	h.mu.Unlock()

	if h.debug {
		log.Printf("[posehub] feed connected: %s (total: %d)", feedID, count)
	}

	defer func() {
		h.mu.Lock()
		delete(h.feeds, feedID)
		count := len(h.feeds)
		h.mu.Unlock()

		if h.debug {
			log.Printf("[posehub] feed disconnected: %s (total: %d)", feedID, count)
		}
	}()

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			if h.debug {
				log.Printf("[posehub] feed %s read error: %v", feedID, err)
			}
			return
		}

		feed.mu.Lock()
		feed.LastSeen = time.Now()
		feed.mu.Unlock()

		h.messagesReceived.Add(1)
		h.handleMessage(feedID, data)
	}
}

// handleMessage processes one envelope. Malformed messages are dropped.
func (h *Hub) handleMessage(feedID string, data []byte) {
	msg, err := ParseMessage(data)
	if err != nil {
		h.parseErrors.Add(1)
		if h.debug {
			log.Printf("[posehub] parse error from %s: %v", feedID, err)
		}
		return
	}

	switch msg.Type {
	case TypePoses:
		h.Publish(feedID, msg.Poses)
	case TypeMode:
		h.mu.Lock()
		h.mode = posepaint.ParseMode(msg.Mode)
		h.hasMode = true
		h.mu.Unlock()
	case TypePing:
		if err := h.send(feedID, &Message{Type: TypePong, Timestamp: time.Now().UnixMilli()}); err != nil && h.debug {
			log.Printf("[posehub] pong to %s: %v", feedID, err)
		}
	default:
		if h.debug {
			log.Printf("[posehub] unknown message type %q from %s", msg.Type, feedID)
		}
	}
}

// Publish stores poses as the latest frame.
func (h *Hub) Publish(feedID string, poses []posepaint.Pose) {
	h.framesReceived.Add(1)

	h.mu.Lock()
	h.latest = poses
	h.latestAt = time.Now()
	h.from = feedID
	cb := h.onPoses
	h.mu.Unlock()

	if cb != nil {
		cb(feedID, poses)
	}
}

// Poses returns a copy of the latest frame, or nil once it is older than
// the max age.
func (h *Hub) Poses() []posepaint.Pose {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.latest == nil {
		return nil
	}
	if h.maxAge > 0 && time.Since(h.latestAt) > h.maxAge {
		return nil
	}
	out := make([]posepaint.Pose, len(h.latest))
	for i, p := range h.latest {
		kp := make([]posepaint.Keypoint, len(p.Keypoints))
		copy(kp, p.Keypoints)
		out[i] = posepaint.Pose{Keypoints: kp}
	}
	return out
}

// TakeMode returns a mode requested by a feed since the last call.
func (h *Hub) TakeMode() (posepaint.Mode, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.hasMode {
		return posepaint.ModeNone, false
	}
	h.hasMode = false
	return h.mode, true
}

func (h *Hub) send(feedID string, msg *Message) error {
	h.mu.RLock()
	feed, ok := h.feeds[feedID]
	h.mu.RUnlock()

	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "feed not connected")
	}

	h.messagesSent.Add(1)
	return feed.Send(msg)
}

// Broadcast sends a message to all connected feeds.
func (h *Hub) Broadcast(msg *Message) {
	h.mu.RLock()
	feeds := make([]*Feed, 0, len(h.feeds))
	for _, f := range h.feeds {
		feeds = append(feeds, f)
	}
	h.mu.RUnlock()

	for _, f := range feeds {
		h.messagesSent.Add(1)
		if err := f.Send(msg); err != nil && h.debug {
			log.Printf("[posehub] broadcast error to %s: %v", f.ID, err)
		}
	}
}

// GetFeed returns a feed by ID.
func (h *Hub) GetFeed(feedID string) *Feed {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.feeds[feedID]
}

// FeedCount returns the number of connected feeds.
func (h *Hub) FeedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.feeds)
}

// Stats contains hub statistics.
type Stats struct {
	FeedCount        int    `json:"feed_count"`
	MessagesReceived uint64 `json:"messages_received"`
	MessagesSent     uint64 `json:"messages_sent"`
	FramesReceived   uint64 `json:"frames_received"`
	ParseErrors      uint64 `json:"parse_errors"`
	LatestFrom       string `json:"latest_from,omitempty"`
}

// GetStats returns hub statistics.
func (h *Hub) GetStats() Stats {
	h.mu.RLock()
	from := h.from
	h.mu.RUnlock()

	return Stats{
		FeedCount:        h.FeedCount(),
		MessagesReceived: h.messagesReceived.Load(),
		MessagesSent:     h.messagesSent.Load(),
		FramesReceived:   h.framesReceived.Load(),
		ParseErrors:      h.parseErrors.Load(),
		LatestFrom:       from,
	}
}

// FeedInfo contains info about a connected feed.
type FeedInfo struct {
	ID        string    `json:"id"`
	Connected time.Time `json:"connected"`
	LastSeen  time.Time `json:"last_seen"`
}

// GetFeedInfos returns info about all connected feeds.
func (h *Hub) GetFeedInfos() []FeedInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()

	infos := make([]FeedInfo, 0, len(h.feeds))
	for _, f := range h.feeds {
		f.mu.Lock()
		infos = append(infos, FeedInfo{ID: f.ID, Connected: f.Connected, LastSeen: f.LastSeen})
		f.mu.Unlock()
	}
	return infos
}

// RegisterAPIRoutes registers HTTP routes for feed management and
// request-per-frame ingest.
func (h *Hub) RegisterAPIRoutes(api fiber.Router) {
	feeds := api.Group("/feeds")

	feeds.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"feeds": h.GetFeedInfos(),
			"count": h.FeedCount(),
		})
	})

	feeds.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(h.GetStats())
	})

	api.Get("/poses", func(c *fiber.Ctx) error {
		poses := h.Poses()
		if poses == nil {
			poses = []posepaint.Pose{}
		}
		return c.JSON(fiber.Map{"poses": poses})
	})

	api.Post("/poses", func(c *fiber.Ctx) error {
		var msg Message
		if err := c.BodyParser(&msg); err != nil {
			h.parseErrors.Add(1)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.messagesReceived.Add(1)
		h.Publish("http", msg.Poses)
		return c.JSON(fiber.Map{"status": "ok", "poses": len(msg.Poses)})
	})
}
