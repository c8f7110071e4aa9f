// Package messaging keeps the direct message log between the current
// identity and its counterparts, and simulates counterpart replies.
package messaging

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hongminglow/all-in-console/internal/models"
)

// Identities is the part of the session store messaging depends on.
type Identities interface {
	Current() (models.Identity, bool)
}

// Notifier raises a console notification when a reply arrives.
type Notifier interface {
	Add(title, description string, category models.Category, link string) (models.Notification, error)
}

// Options tune reply simulation.
type Options struct {
	// ReplyProbability is the chance in [0,1] that a sent message gets a reply.
	ReplyProbability float64
	ReplyDelayMin    time.Duration
	ReplyDelayMax    time.Duration
	// Responses are the canned reply texts; DefaultResponses when empty.
	Responses []string
	// Source seeds reply randomness; time-based when nil.
	Source rand.Source
	Logger *zap.Logger
}

// DefaultOptions mirrors the console: half of all messages get a reply
// 8 to 13 seconds later.
func DefaultOptions() Options {
	return Options{
		ReplyProbability: 0.5,
		ReplyDelayMin:    8 * time.Second,
		ReplyDelayMax:    13 * time.Second,
	}
}

// DefaultResponses are the canned counterpart replies.
var DefaultResponses = []string{
	"Thanks for your message! I'll get back to you soon.",
	"Got it, I'll take a look at this today.",
	"Sounds good to me.",
	"Let me check with the team and circle back.",
	"Thanks for the update!",
	"Can we discuss this in tomorrow's meeting?",
}

// Store is the message log. Derived views are recomputed on every call.
type Store struct {
	identities Identities
	notifier   Notifier
	logger     *zap.Logger
	now        func() time.Time

	probability float64
	delayMin    time.Duration
	delayMax    time.Duration
	responses   []string

	mu         sync.Mutex
	rng        *rand.Rand
	messages   []models.Message
	names      map[string]string
	active     string
	pending    map[uint64]*time.Timer
	nextTask   uint64
	generation uint64
	closed     bool
}

// NewStore builds an empty message store. notifier may be nil.
func NewStore(identities Identities, notifier Notifier, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	src := opts.Source
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	responses := opts.Responses
	if len(responses) == 0 {
		responses = DefaultResponses
	}
	delayMin, delayMax := opts.ReplyDelayMin, opts.ReplyDelayMax
	if delayMax < delayMin {
		delayMax = delayMin
	}
	return &Store{
		identities:  identities,
		notifier:    notifier,
		logger:      logger.Named("messaging"),
		now:         time.Now,
		probability: opts.ReplyProbability,
		delayMin:    delayMin,
		delayMax:    delayMax,
		responses:   append([]string(nil), responses...),
		rng:         rand.New(src),
		names:       make(map[string]string),
		pending:     make(map[uint64]*time.Timer),
	}
}

// Send appends a message from the current identity to recipientID. It is a
// no-op, returning false, without a current identity, with blank content, or
// when addressed to oneself. A reply may be scheduled.
func (s *Store) Send(recipientID, recipientName, content string) (models.Message, bool) {
	me, gen, ok := s.owner()
	content = strings.TrimSpace(content)
	recipientID = strings.TrimSpace(recipientID)
	if !ok || content == "" || recipientID == "" || recipientID == me.ID {
		return models.Message{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.generation {
		return models.Message{}, false
	}
	msg := models.Message{
		ID:          uuid.NewString(),
		SenderID:    me.ID,
		SenderName:  me.Name,
		RecipientID: recipientID,
		Content:     content,
		Timestamp:   s.now(),
	}
	s.messages = append(s.messages, msg)
	if name := strings.TrimSpace(recipientName); name != "" {
		s.names[recipientID] = name
	}
	s.logger.Debug("message sent", zap.String("to", recipientID))

	if s.rng.Float64() < s.probability {
		s.scheduleReplyLocked(me.ID, recipientID, s.nameLocked(recipientID))
	}
	return msg, true
}

// Receive appends a message from senderID to the current identity and raises
// a user notification. It returns false without a current identity.
func (s *Store) Receive(senderID, senderName, content string) (models.Message, bool) {
	me, gen, ok := s.owner()
	if !ok || senderID == "" || senderID == me.ID || strings.TrimSpace(content) == "" {
		return models.Message{}, false
	}
	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return models.Message{}, false
	}
	msg := s.appendIncomingLocked(me.ID, senderID, senderName, content)
	s.mu.Unlock()

	s.raise(msg)
	return msg, true
}

// MarkAsRead marks every unread message from userID to the current identity
// as read and returns how many changed.
func (s *Store) MarkAsRead(userID string) int {
	me, ok := s.identities.Current()
	if !ok {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := 0
	for i := range s.messages {
		m := &s.messages[i]
		if m.SenderID == userID && m.RecipientID == me.ID && !m.Read {
			m.Read = true
			changed++
		}
	}
	return changed
}

// SetActiveConversation records which conversation the user has open; "" clears it.
func (s *Store) SetActiveConversation(userID string) {
	s.mu.Lock()
	s.active = userID
	s.mu.Unlock()
}

// ActiveConversation returns the open conversation, or "".
func (s *Store) ActiveConversation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Thread returns the messages exchanged with userID in send order.
func (s *Store) Thread(userID string) []models.Message {
	me, ok := s.identities.Current()
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, m := range s.messages {
		if counterpart(m, me.ID) == userID {
			out = append(out, m)
		}
	}
	return out
}

// Messages returns a copy of the whole log.
func (s *Store) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Message(nil), s.messages...)
}

// Conversations projects the log into per-counterpart summaries.
func (s *Store) Conversations() []models.Conversation {
	me, ok := s.identities.Current()
	if !ok {
		return []models.Conversation{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return buildConversations(s.messages, me.ID, s.names)
}

// UnreadTotal is the sum of unread counts across conversations.
func (s *Store) UnreadTotal() int {
	total := 0
	for _, c := range s.Conversations() {
		total += c.UnreadCount
	}
	return total
}

// Seed appends demo history. Messages not involving the current identity are
// skipped; replies are not scheduled.
func (s *Store) Seed(messages []models.Message) int {
	me, gen, ok := s.owner()
	if !ok {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return 0
	}
	added := 0
	for _, m := range messages {
		other := counterpart(m, me.ID)
		if other == "" {
			continue
		}
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.SenderID == other && m.SenderName != "" {
			s.names[other] = m.SenderName
		}
		s.messages = append(s.messages, m)
		added++
	}
	return added
}

// HandleIdentityChange resets the log and cancels pending replies so nothing
// is delivered to a session that has ended. It matches session.Listener.
func (s *Store) HandleIdentityChange(prev, next *models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cancelled := s.cancelLocked()
	s.messages = nil
	s.names = make(map[string]string)
	s.active = ""
	if cancelled > 0 {
		s.logger.Info("cancelled pending replies", zap.Int("count", cancelled))
	}
}

// Pending reports how many replies are scheduled.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Close cancels pending replies; later sends are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.closed = true
}

// owner reads the current identity along with the generation it was read
// under. Writes made for that identity are dropped once the generation moves.
func (s *Store) owner() (models.Identity, uint64, bool) {
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()
	me, ok := s.identities.Current()
	return me, gen, ok
}

func (s *Store) appendIncomingLocked(meID, senderID, senderName, content string) models.Message {
	if senderName == "" {
		senderName = s.nameLocked(senderID)
	} else {
		s.names[senderID] = senderName
	}
	msg := models.Message{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		SenderName:  senderName,
		RecipientID: meID,
		Content:     strings.TrimSpace(content),
		Timestamp:   s.now(),
	}
	s.messages = append(s.messages, msg)
	return msg
}

func (s *Store) raise(msg models.Message) {
	if s.notifier == nil {
		return
	}
	title := "New message from " + msg.SenderName
	if _, err := s.notifier.Add(title, msg.Content, models.CategoryUser, "/messages"); err != nil {
		s.logger.Warn("raise message notification", zap.Error(err))
	}
}

func (s *Store) nameLocked(id string) string {
	if name, ok := s.names[id]; ok {
		return name
	}
	return id
}

func counterpart(m models.Message, me string) string {
	switch me {
	case m.SenderID:
		return m.RecipientID
	case m.RecipientID:
		return m.SenderID
	default:
		return ""
	}
}
