// Package chat manages multi-turn conversation sessions with the
// configured generative model. Sessions hold their own history; the manager
// only keeps an expiring handle so unrelated questions start clean.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/mekorot-project/mekorot/internal/llm"
	"github.com/mekorot-project/mekorot/internal/model"
)

const rabbiPersonaHe = `אתה תלמיד חכם, בקיא בכל מרחבי התורה - תנ"ך, תלמוד, הלכה ומחשבה. ענה על שאלות המשתמש בצורה ברורה, מכבדת ועניינית, בעברית. כאשר שאלה נוגעת להלכה למעשה, ציין שהתשובה היא לימודית בלבד ויש להיוועץ במורה הוראה. אל תפסוק הלכה.`

const rabbiPersonaEn = `You are a learned Torah scholar, versed in Tanakh, Talmud, Halakha, and Jewish thought. Answer the user's questions clearly, respectfully, and to the point. When a question touches practical Halakha, note that the answer is for study only and a qualified authority should be consulted. Never issue a halachic ruling.`

// Session is one live conversation.
type Session struct {
	ID      string
	Lang    model.Language
	Created time.Time

	chat llm.Chat
}

// Ask sends one user message and returns the model's reply. History is kept
// inside the session.
func (s *Session) Ask(ctx context.Context, text string) (string, error) {
	return s.chat.Send(ctx, text)
}

// Manager creates sessions and keeps them addressable by ID until they
// expire. Session state is conversation history only; repository texts are
// never cached here.
type Manager struct {
	provider llm.Provider
	store    *gocache.Cache
}

// NewManager creates a session manager with the given idle TTL
func NewManager(provider llm.Provider, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{
		provider: provider,
		store:    gocache.New(ttl, ttl/2),
	}
}

// NewSession opens a fresh conversation in the given language
func (m *Manager) NewSession(ctx context.Context, lang model.Language) (*Session, error) {
	persona := rabbiPersonaEn
	if lang == model.LangHebrew {
		persona = rabbiPersonaHe
	}

	chat, err := m.provider.NewChat(ctx, persona, nil)
	if err != nil {
		return nil, fmt.Errorf("open chat session: %w", err)
	}

	session := &Session{
		ID:      uuid.NewString(),
		Lang:    lang,
		Created: time.Now(),
		chat:    chat,
	}
	m.store.SetDefault(session.ID, session)
	return session, nil
}

// Session returns the live session with the given ID, or nil if it expired
// or never existed
func (m *Manager) Session(id string) *Session {
	if v, ok := m.store.Get(id); ok {
		return v.(*Session)
	}
	return nil
}

// Close drops a session before its TTL
func (m *Manager) Close(id string) {
	m.store.Delete(id)
}
