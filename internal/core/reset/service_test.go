package reset_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailauth/internal/config"
	"mailauth/internal/core/reset"
	"mailauth/internal/domain"
	"mailauth/internal/logger"
)

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	updateErr error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, ID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[ID]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, ID string, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	u, ok := r.users[ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Password = hashedPassword
	return nil
}

type fakeResetRepo struct {
	mu        sync.Mutex
	records   map[string]*domain.PasswordReset
	createErr error
	getErr    error
	deleteErr error
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{records: make(map[string]*domain.PasswordReset)}
}

func (r *fakeResetRepo) Create(ctx context.Context, rec *domain.PasswordReset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.records[rec.UserID]; exists {
		return errors.New("duplicate key")
	}
	cp := *rec
	r.records[rec.UserID] = &cp
	return nil
}

func (r *fakeResetRepo) GetByUser(ctx context.Context, userID string) (*domain.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	rec, ok := r.records[userID]
	if !ok {
		return nil, domain.ErrResetNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeResetRepo) DeleteByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.records, userID)
	return nil
}

func (r *fakeResetRepo) DeleteExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, rec := range r.records {
		if rec.IsExpired() {
			delete(r.records, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeResetRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func (r *fakeResetRepo) expire(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[userID]; ok {
		rec.ExpiresAt = time.Now().Add(-time.Minute)
	}
}

type fakeHasher struct {
	hashErr   error
	verifyErr error
}

func (h *fakeHasher) Hash(plain string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + plain, nil
}

func (h *fakeHasher) Verify(plain, hash string) (bool, error) {
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	return hash == "hashed:"+plain, nil
}

type fakeDispatcher struct {
	mu      sync.Mutex
	sent    []domain.MailMessage
	sendErr error
}

func (d *fakeDispatcher) Send(ctx context.Context, msg domain.MailMessage) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sendErr != nil {
		return d.sendErr
	}
	d.sent = append(d.sent, msg)
	return nil
}

func (d *fakeDispatcher) lastBody(t *testing.T) string {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	require.NotEmpty(t, d.sent)
	return d.sent[len(d.sent)-1].Body
}

// tokenFromBody pulls the plaintext token out of the emailed link,
// which has the form redirectUrl/userId/token.
func tokenFromBody(t *testing.T, body, userID string) string {
	t.Helper()
	start := strings.Index(body, `href="`)
	require.GreaterOrEqual(t, start, 0)
	rest := body[start+len(`href="`):]
	end := strings.Index(rest, `"`)
	require.GreaterOrEqual(t, end, 0)
	link := rest[:end]
	marker := "/" + userID + "/"
	idx := strings.Index(link, marker)
	require.GreaterOrEqual(t, idx, 0)
	return link[idx+len(marker):]
}

func testLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "text"})
}

func newService(users *fakeUserRepo, resets *fakeResetRepo, hasher *fakeHasher, mailer *fakeDispatcher) *reset.Service {
	return reset.NewService(users, resets, hasher, mailer, testLogger())
}

func testUser() *domain.User {
	return &domain.User{
		ID:       "64b0f1e2a3c4d5e6f7a8b9c0",
		Name:     "Jamie",
		Email:    "a@x.com",
		Password: "hashed:original",
	}
}

func TestRequestReset(t *testing.T) {
	ctx := context.Background()

	t.Run("sends email and stores hashed token", func(t *testing.T) {
		user := testUser()
		users := newFakeUserRepo(user)
		resets := newFakeResetRepo()
		mailer := &fakeDispatcher{}
		svc := newService(users, resets, &fakeHasher{}, mailer)

		outcome := svc.RequestReset(ctx, domain.RequestResetRequest{
			Email:       user.Email,
			RedirectURL: "https://app.example.com/reset",
		})

		require.Equal(t, domain.StatusPending, outcome.Status)
		assert.Equal(t, "Password reset email sent", outcome.Message)
		require.Equal(t, 1, resets.count())

		token := tokenFromBody(t, mailer.lastBody(t), user.ID)
		assert.NotEmpty(t, token)
		assert.True(t, strings.HasSuffix(token, user.ID))

		rec, err := resets.GetByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "hashed:"+token, rec.ResetString)
		assert.NotEqual(t, token, rec.ResetString)
		assert.WithinDuration(t, rec.CreatedAt.Add(domain.ResetTTL), rec.ExpiresAt, time.Second)
	})

	t.Run("unknown email reports soft failure", func(t *testing.T) {
		users := newFakeUserRepo()
		resets := newFakeResetRepo()
		mailer := &fakeDispatcher{}
		svc := newService(users, resets, &fakeHasher{}, mailer)

		outcome := svc.RequestReset(ctx, domain.RequestResetRequest{
			Email:       "missing@x.com",
			RedirectURL: "https://app.example.com/reset",
		})

		assert.Equal(t, domain.StatusFailed, outcome.Status)
		assert.Equal(t, domain.ReasonUserNotFound, outcome.Reason)
		assert.Empty(t, mailer.sent)
	})

	t.Run("second request supersedes the first token", func(t *testing.T) {
		user := testUser()
		users := newFakeUserRepo(user)
		resets := newFakeResetRepo()
		mailer := &fakeDispatcher{}
		svc := newService(users, resets, &fakeHasher{}, mailer)

		req := domain.RequestResetRequest{Email: user.Email, RedirectURL: "https://app.example.com/reset"}

		require.Equal(t, domain.StatusPending, svc.RequestReset(ctx, req).Status)
		firstToken := tokenFromBody(t, mailer.lastBody(t), user.ID)

		require.Equal(t, domain.StatusPending, svc.RequestReset(ctx, req).Status)
		secondToken := tokenFromBody(t, mailer.lastBody(t), user.ID)

		require.NotEqual(t, firstToken, secondToken)
		assert.Equal(t, 1, resets.count())

		stale := svc.ResetPassword(ctx, domain.ResetPasswordRequest{
			UserID:      user.ID,
			ResetString: firstToken,
			NewPassword: "newpassword",
		})
		assert.Equal(t, domain.ReasonInvalidToken, stale.Reason)

		fresh := svc.ResetPassword(ctx, domain.ResetPasswordRequest{
			UserID:      user.ID,
			ResetString: secondToken,
			NewPassword: "newpassword",
		})
		assert.Equal(t, domain.StatusSuccess, fresh.Status)
	})

	t.Run("each dependency failure reports its own reason", func(t *testing.T) {
		user := testUser()
		req := domain.RequestResetRequest{Email: user.Email, RedirectURL: "https://app.example.com/reset"}
		boom := errors.New("boom")

		tests := []struct {
			name   string
			setup  func(resets *fakeResetRepo, hasher *fakeHasher, mailer *fakeDispatcher)
			reason domain.ResetReason
		}{
			{
				name:   "purge failure",
				setup:  func(r *fakeResetRepo, h *fakeHasher, m *fakeDispatcher) { r.deleteErr = boom },
				reason: domain.ReasonPurgeFailed,
			},
			{
				name:   "hash failure",
				setup:  func(r *fakeResetRepo, h *fakeHasher, m *fakeDispatcher) { h.hashErr = boom },
				reason: domain.ReasonHashFailed,
			},
			{
				name:   "insert failure",
				setup:  func(r *fakeResetRepo, h *fakeHasher, m *fakeDispatcher) { r.createErr = boom },
				reason: domain.ReasonStoreFailed,
			},
			{
				name:   "mail failure",
				setup:  func(r *fakeResetRepo, h *fakeHasher, m *fakeDispatcher) { m.sendErr = boom },
				reason: domain.ReasonMailFailed,
			},
		}

		seen := make(map[string]bool)
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				users := newFakeUserRepo(user)
				resets := newFakeResetRepo()
				hasher := &fakeHasher{}
				mailer := &fakeDispatcher{}
				tt.setup(resets, hasher, mailer)
				svc := newService(users, resets, hasher, mailer)

				outcome := svc.RequestReset(ctx, req)
				assert.Equal(t, domain.StatusFailed, outcome.Status)
				assert.Equal(t, tt.reason, outcome.Reason)
				assert.False(t, seen[outcome.Message], "messages must be distinct")
				seen[outcome.Message] = true
			})
		}
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()

	request := func(t *testing.T, svc *reset.Service, user *domain.User, mailer *fakeDispatcher) string {
		t.Helper()
		outcome := svc.RequestReset(ctx, domain.RequestResetRequest{
			Email:       user.Email,
			RedirectURL: "https://app.example.com/reset",
		})
		require.Equal(t, domain.StatusPending, outcome.Status)
		return tokenFromBody(t, mailer.lastBody(t), user.ID)
	}

	t.Run("round trip succeeds exactly once", func(t *testing.T) {
		user := testUser()
		users := newFakeUserRepo(user)
		resets := newFakeResetRepo()
		mailer := &fakeDispatcher{}
		svc := newService(users, resets, &fakeHasher{}, mailer)

		token := request(t, svc, user, mailer)

		first := svc.ResetPassword(ctx, domain.ResetPasswordRequest{
			UserID:      user.ID,
			ResetString: token,
			NewPassword: "freshpassword",
		})
		require.Equal(t, domain.StatusSuccess, first.Status)
		assert.Equal(t, domain.ReasonNone, first.Reason)
		assert.Equal(t, "hashed:freshpassword", user.Password)
		assert.Equal(t, 0, resets.count())

		second := svc.ResetPassword(ctx, domain.ResetPasswordRequest{
			UserID:      user.ID,
			ResetString: token,
			NewPassword: "anotherpassword",
		})
		assert.Equal(t, domain.StatusFailed, second.Status)
		assert.Equal(t, domain.ReasonNotFound, second.Reason)
	})

	t.Run("no record reports not found", func(t *testing.T) {
		user := testUser()
		svc := newService(newFakeUserRepo(user), newFakeResetRepo(), &fakeHasher{}, &fakeDispatcher{})

		outcome := svc.ResetPassword(ctx, domain.ResetPasswordRequest{
			UserID:      user.ID,
			ResetString: "whatever",
			NewPassword: "newpassword",
		})
		assert.Equal(t, domain.ReasonNotFound, outcome.Reason)
	})

	t.Run("expired record is purged and password unchanged", func(t *testing.T) {
		user := testUser()
		users := newFakeUserRepo(user)
		resets := newFakeResetRepo()
		mailer := &fakeDispatcher{}
		svc := newService(users, resets, &fakeHasher{}, mailer)

		token := request(t, svc, user, mailer)
		resets.expire(user.ID)

		outcome := svc.ResetPassword(ctx, domain.ResetPasswordRequest{
			UserID:      user.ID,
			ResetString: token,
			NewPassword: "newpassword",
		})

		assert.Equal(t, domain.StatusFailed, outcome.Status)
		assert.Equal(t, domain.ReasonExpired, outcome.Reason)
		assert.Equal(t, "hashed:original", user.Password)
		assert.Equal(t, 0, resets.count())
	})

	t.Run("wrong token keeps the record for retry", func(t *testing.T) {
		user := testUser()
		users := newFakeUserRepo(user)
		resets := newFakeResetRepo()
		mailer := &fakeDispatcher{}
		svc := newService(users, resets, &fakeHasher{}, mailer)

		token := request(t, svc, user, mailer)

		outcome := svc.ResetPassword(ctx, domain.ResetPasswordRequest{
			UserID:      user.ID,
			ResetString: "not-the-token",
			NewPassword: "newpassword",
		})
		assert.Equal(t, domain.ReasonInvalidToken, outcome.Reason)
		assert.Equal(t, "hashed:original", user.Password)
		require.Equal(t, 1, resets.count())

		retry := svc.ResetPassword(ctx, domain.ResetPasswordRequest{
			UserID:      user.ID,
			ResetString: token,
			NewPassword: "newpassword",
		})
		assert.Equal(t, domain.StatusSuccess, retry.Status)
	})

	t.Run("update failure keeps the record", func(t *testing.T) {
		user := testUser()
		users := newFakeUserRepo(user)
		users.updateErr = errors.New("store down")
		resets := newFakeResetRepo()
		mailer := &fakeDispatcher{}
		svc := newService(users, resets, &fakeHasher{}, mailer)

		token := request(t, svc, user, mailer)

		outcome := svc.ResetPassword(ctx, domain.ResetPasswordRequest{
			UserID:      user.ID,
			ResetString: token,
			NewPassword: "newpassword",
		})

		assert.Equal(t, domain.StatusFailed, outcome.Status)
		assert.Equal(t, domain.ReasonUpdateFailed, outcome.Reason)
		assert.Equal(t, 1, resets.count(), "record must survive so the reset path stays valid")
	})

	t.Run("finalize failure still commits the password change", func(t *testing.T) {
		user := testUser()
		users := newFakeUserRepo(user)
		resets := newFakeResetRepo()
		mailer := &fakeDispatcher{}
		svc := newService(users, resets, &fakeHasher{}, mailer)

		token := request(t, svc, user, mailer)
		resets.deleteErr = errors.New("store down")

		outcome := svc.ResetPassword(ctx, domain.ResetPasswordRequest{
			UserID:      user.ID,
			ResetString: token,
			NewPassword: "newpassword",
		})

		assert.Equal(t, domain.StatusSuccess, outcome.Status)
		assert.Equal(t, domain.ReasonFinalizeFail, outcome.Reason)
		assert.Equal(t, "hashed:newpassword", user.Password)
	})

	t.Run("compare failure is distinct from mismatch", func(t *testing.T) {
		user := testUser()
		users := newFakeUserRepo(user)
		resets := newFakeResetRepo()
		mailer := &fakeDispatcher{}
		hasher := &fakeHasher{}
		svc := newService(users, resets, hasher, mailer)

		token := request(t, svc, user, mailer)
		hasher.verifyErr = errors.New("boom")

		outcome := svc.ResetPassword(ctx, domain.ResetPasswordRequest{
			UserID:      user.ID,
			ResetString: token,
			NewPassword: "newpassword",
		})
		assert.Equal(t, domain.ReasonCompareFailed, outcome.Reason)
	})
}
