package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/yamdb/internal/apperror"
	"github.com/user/yamdb/internal/model"
	"gorm.io/gorm"
)

// fakeUserStore 内存版用户存储
type fakeUserStore struct {
	users  map[int]*model.User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int]*model.User)}
}

func (s *fakeUserStore) add(u *model.User) *model.User {
	s.nextID++
	u.ID = s.nextID
	stored := *u
	s.users[u.ID] = &stored
	return &stored
}

func (s *fakeUserStore) FindByUsername(username string) (*model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) FindByID(id int) (*model.User, error) {
	if u, ok := s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (s *fakeUserStore) Upsert(user *model.User) error {
	for _, u := range s.users {
		if u.Username == user.Username {
			u.ConfirmationCode = user.ConfirmationCode
			user.ID = u.ID
			return nil
		}
	}
	s.add(user)
	return nil
}

func (s *fakeUserStore) Update(user *model.User) error {
	stored, ok := s.users[user.ID]
	if !ok {
		return errors.New("user not found")
	}
	code := stored.ConfirmationCode
	copied := *user
	copied.ConfirmationCode = code
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) UpdateConfirmationCode(userID int, hash string) error {
	if u, ok := s.users[userID]; ok {
		u.ConfirmationCode = hash
	}
	return nil
}

// fakeMailer 记录发出的邮件，可注入失败
type fakeMailer struct {
	sent []string // 邮件正文
	to   []string
	err  error
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.to = append(m.to, to)
	m.sent = append(m.sent, body)
	return nil
}

// lastCode 从最后一封邮件正文里取确认码
func (m *fakeMailer) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.sent)
	body := m.sent[len(m.sent)-1]
	idx := strings.LastIndex(body, "：")
	require.Greater(t, idx, -1)
	return body[idx+len("："):]
}

type fakeIssuer struct {
	err error
}

func (f fakeIssuer) Issue(user *model.User) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + user.Username, nil
}

func newAuthService() (*AuthService, *fakeUserStore, *fakeMailer) {
	store := newFakeUserStore()
	mailer := &fakeMailer{}
	return NewAuthService(store, mailer, fakeIssuer{}), store, mailer
}

func TestSignupCreatesUserAndEmailsCode(t *testing.T) {
	svc, store, mailer := newAuthService()

	result, err := svc.Signup("alice", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", result.Username)
	assert.Equal(t, "a@x.com", result.Email)

	user, err := store.FindByUsername("alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, model.RoleUser, user.Role)

	// 确认码只走邮件，且落库的是哈希而不是明文
	require.Len(t, mailer.sent, 1)
	code := mailer.lastCode(t)
	assert.NotEmpty(t, code)
	assert.NotContains(t, user.ConfirmationCode, code)
}

func TestSignupRegeneratesCode(t *testing.T) {
	svc, _, mailer := newAuthService()

	first, err := svc.Signup("alice", "a@x.com")
	require.NoError(t, err)
	oldCode := mailer.lastCode(t)

	second, err := svc.Signup("alice", "a@x.com")
	require.NoError(t, err)
	newCode := mailer.lastCode(t)

	assert.Equal(t, first, second)
	assert.NotEqual(t, oldCode, newCode)

	// 旧码已被替换，新码可用
	_, err = svc.ObtainToken("alice", oldCode)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	token, err := svc.ObtainToken("alice", newCode)
	require.NoError(t, err)
	assert.Equal(t, "token-alice", token.Token)
}

func TestSignupConflicts(t *testing.T) {
	svc, store, _ := newAuthService()
	store.add(&model.User{Username: "alice", Email: "a@x.com", Role: model.RoleUser})
	store.add(&model.User{Username: "bob", Email: "b@x.com", Role: model.RoleUser})

	// 邮箱被别人占用
	_, err := svc.Signup("carol", "a@x.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "email", apperror.FieldOf(err))

	// 用户名被别人占用
	_, err = svc.Signup("alice", "c@x.com")
	require.Error(t, err)
	assert.Equal(t, "username", apperror.FieldOf(err))

	// 用户名与邮箱分属不同账号
	_, err = svc.Signup("alice", "b@x.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// 同一账号重复注册是幂等的
	result, err := svc.Signup("alice", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", result.Username)
}

func TestSignupRejectsReservedUsername(t *testing.T) {
	svc, _, _ := newAuthService()

	for _, name := range []string{"me", "Me", "ME", "mE"} {
		_, err := svc.Signup(name, "a@x.com")
		require.Error(t, err, name)
		assert.Equal(t, "username", apperror.FieldOf(err))
	}
}

func TestSignupValidatesUsername(t *testing.T) {
	svc, _, _ := newAuthService()

	_, err := svc.Signup("bad name!", "a@x.com")
	require.Error(t, err)
	assert.Equal(t, "username", apperror.FieldOf(err))

	_, err = svc.Signup(strings.Repeat("a", model.MaxLengthName+1), "a@x.com")
	require.Error(t, err)
	assert.Equal(t, "username", apperror.FieldOf(err))

	_, err = svc.Signup("alice", strings.Repeat("a", model.MaxLengthEmail)+"@x.com")
	require.Error(t, err)
	assert.Equal(t, "email", apperror.FieldOf(err))
}

func TestSignupMailFailureIsHardError(t *testing.T) {
	svc, _, mailer := newAuthService()
	mailer.err = errors.New("smtp down")

	_, err := svc.Signup("alice", "a@x.com")
	require.Error(t, err)
}

// conflictUserStore 写入时总是报唯一约束冲突，
// 模拟预检查通过后被并发注册抢占的场景
type conflictUserStore struct {
	*fakeUserStore
}

func (s conflictUserStore) Upsert(user *model.User) error {
	return gorm.ErrDuplicatedKey
}

func TestSignupStorageConflict(t *testing.T) {
	svc := NewAuthService(conflictUserStore{newFakeUserStore()}, &fakeMailer{}, fakeIssuer{})

	_, err := svc.Signup("alice", "a@x.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "email", apperror.FieldOf(err))
}

func TestObtainTokenUnknownUser(t *testing.T) {
	svc, _, _ := newAuthService()

	_, err := svc.ObtainToken("ghost", "whatever")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestObtainTokenWrongCode(t *testing.T) {
	svc, _, _ := newAuthService()

	_, err := svc.Signup("alice", "a@x.com")
	require.NoError(t, err)

	_, err = svc.ObtainToken("alice", "not-the-code")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "confirmation_code", apperror.FieldOf(err))
}

func TestObtainTokenInvalidatesCode(t *testing.T) {
	svc, _, mailer := newAuthService()

	_, err := svc.Signup("alice", "a@x.com")
	require.NoError(t, err)
	code := mailer.lastCode(t)

	result, err := svc.ObtainToken("alice", code)
	require.NoError(t, err)
	assert.Equal(t, "alice", result.Username)
	assert.NotZero(t, result.UserID)

	// 确认码一次性使用，重放失败
	_, err = svc.ObtainToken("alice", code)
	require.Error(t, err)
	assert.Equal(t, "confirmation_code", apperror.FieldOf(err))
}

func TestObtainTokenKeepsCodeOnIssueFailure(t *testing.T) {
	store := newFakeUserStore()
	mailer := &fakeMailer{}
	broken := NewAuthService(store, mailer, fakeIssuer{err: errors.New("签发失败")})

	_, err := broken.Signup("alice", "a@x.com")
	require.NoError(t, err)
	code := mailer.lastCode(t)

	_, err = broken.ObtainToken("alice", code)
	require.Error(t, err)

	// 签发失败不消耗确认码，恢复后同一确认码仍可用
	svc := NewAuthService(store, mailer, fakeIssuer{})
	result, err := svc.ObtainToken("alice", code)
	require.NoError(t, err)
	assert.Equal(t, "alice", result.Username)
}

func TestUpdateProfileKeepsRole(t *testing.T) {
	svc, store, _ := newAuthService()
	u := store.add(&model.User{Username: "alice", Email: "a@x.com", Role: model.RoleUser})

	bio := "测试简介"
	profile, err := svc.UpdateProfile(Actor{ID: u.ID, Username: "alice", Role: model.RoleUser}, ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "测试简介", profile.Bio)
	assert.Equal(t, model.RoleUser, profile.Role)
}

func TestUpdateProfileRejectsTakenUsername(t *testing.T) {
	svc, store, _ := newAuthService()
	store.add(&model.User{Username: "bob", Email: "b@x.com", Role: model.RoleUser})
	u := store.add(&model.User{Username: "alice", Email: "a@x.com", Role: model.RoleUser})

	taken := "bob"
	_, err := svc.UpdateProfile(Actor{ID: u.ID, Username: "alice", Role: model.RoleUser}, ProfileUpdate{Username: &taken})
	require.Error(t, err)
	assert.Equal(t, "username", apperror.FieldOf(err))
}
