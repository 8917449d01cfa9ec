package onboarding

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
)

// TTL da sessão de onboarding: o profissional pode fechar o fluxo hospedado
// e retomar de onde parou dentro dessa janela.
const sessionTTL = 48 * time.Hour

type Session struct {
	ID             string    `json:"id"`
	ProfessionalID uint      `json:"professional_id"`
	Provider       string    `json:"provider"`
	AccountRef     string    `json:"account_ref"`
	Step           string    `json:"step"`
	CreatedAt      time.Time `json:"created_at"`
}

// ResumeStore guarda o estado parcial do onboarding de repasse no Redis,
// chaveado por um id opaco que vai embutido na return URL do provedor.
type ResumeStore struct {
	rdb *redis.Client
}

func NewResumeStore(rdb *redis.Client) *ResumeStore {
	return &ResumeStore{rdb: rdb}
}

func sessionKey(id string) string {
	return fmt.Sprintf("payout:onboarding:%s", id)
}

func (s *ResumeStore) Create(
	ctx context.Context,
	professionalID uint,
	provider string,
	accountRef string,
) (*Session, error) {

	sess := &Session{
		ID:             uuid.NewString(),
		ProfessionalID: professionalID,
		Provider:       provider,
		AccountRef:     accountRef,
		Step:           "started",
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *ResumeStore) save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(sess.ID), data, sessionTTL).Err()
}

func (s *ResumeStore) Load(ctx context.Context, id string) (*Session, error) {
	data, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *ResumeStore) Advance(ctx context.Context, sess *Session, step string) error {
	sess.Step = step
	return s.save(ctx, sess)
}

func (s *ResumeStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKey(id)).Err()
}
