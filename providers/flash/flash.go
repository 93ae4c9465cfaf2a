// Package flash keeps one-shot messages and submitted form input in the
// session until the next request reads them.
package flash

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const (
	Success = "success"
	Danger  = "danger"

	messagesKey = "_flash_messages"
	inputKey    = "_old_input"
)

type Message struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Input is a submitted form as kept between two requests.
type Input map[string][]string

func (in Input) Get(key string) string {
	if v := in[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// Uints returns the values of key that parse as positive integers.
func (in Input) Uints(key string) []uint {
	var out []uint
	for _, v := range in[key] {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil || n == 0 {
			continue
		}
		out = append(out, uint(n))
	}
	return out
}

type Store struct {
	sessions *session.Store
}

// NewSessionStore is the session store used by the admin screens.
func NewSessionStore() *session.Store {
	return session.New(session.Config{
		Expiration:     2 * time.Hour,
		KeyLookup:      "cookie:admin_session",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		KeyGenerator:   uuid.NewString,
	})
}

func New(sessions *session.Store) *Store {
	return &Store{sessions: sessions}
}

// Add queues messages of the given type for the next page.
func (s *Store) Add(c *fiber.Ctx, typ string, texts ...string) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	var msgs []Message
	if raw, ok := sess.Get(messagesKey).(string); ok {
		_ = json.Unmarshal([]byte(raw), &msgs)
	}
	for _, t := range texts {
		msgs = append(msgs, Message{Type: typ, Text: t})
	}
	b, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	sess.Set(messagesKey, string(b))
	return sess.Save()
}

// Pop returns and forgets the queued messages.
func (s *Store) Pop(c *fiber.Ctx) ([]Message, error) {
	var msgs []Message
	err := s.pop(c, messagesKey, &msgs)
	return msgs, err
}

// KeepInput stores the submitted form for the next request.
func (s *Store) KeepInput(c *fiber.Ctx, in Input) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	sess.Set(inputKey, string(b))
	return sess.Save()
}

// OldInput returns and forgets the input kept by the previous request.
func (s *Store) OldInput(c *fiber.Ctx) (Input, error) {
	in := Input{}
	err := s.pop(c, inputKey, &in)
	return in, err
}

func (s *Store) pop(c *fiber.Ctx, key string, out any) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	raw, ok := sess.Get(key).(string)
	if !ok {
		return nil
	}
	sess.Delete(key)
	if err := sess.Save(); err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

// FormInput collects the url encoded or multipart body of c.
func FormInput(c *fiber.Ctx) Input {
	in := Input{}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for k, v := range form.Value {
			in[k] = append(in[k], v...)
		}
		return in
	}
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		in[k] = append(in[k], string(value))
	})
	return in
}
