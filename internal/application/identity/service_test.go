package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domidentity "github.com/shoestore/storefront/internal/domain/identity"
	"github.com/shoestore/storefront/internal/domain/shared"
	"github.com/shoestore/storefront/internal/infrastructure/api"
)

type fakeAPI struct {
	loginErr error
	user     domidentity.User

	sellerReq *domidentity.SellerRequest
	sellerErr error
}

func (f *fakeAPI) Login(_ context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &api.AuthResponse{Token: "fresh-token", User: f.user}, nil
}

func (f *fakeAPI) Register(_ context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	return &api.AuthResponse{Token: "fresh-token", User: f.user}, nil
}

func (f *fakeAPI) Me(context.Context) (*domidentity.User, error) {
	u := f.user
	return &u, nil
}

func (f *fakeAPI) UpdateProfile(_ context.Context, name, email string) (*domidentity.User, error) {
	u := f.user
	u.Name = name
	u.Email = email
	return &u, nil
}

func (f *fakeAPI) RequestSeller(context.Context, string, string) (*domidentity.SellerRequest, error) {
	return f.sellerReq, f.sellerErr
}

type fakeSession struct {
	token   string
	user    domidentity.User
	setErr  error
	cleared bool
}

func (f *fakeSession) Set(token string, user domidentity.User) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.token = token
	f.user = user
	return nil
}

func (f *fakeSession) Clear() error {
	f.token = ""
	f.user = domidentity.User{}
	f.cleared = true
	return nil
}

func (f *fakeSession) Authenticated() bool    { return f.token != "" }
func (f *fakeSession) User() domidentity.User { return f.user }

type fakeCart struct {
	initErr   error
	initCalls int
	resets    int
}

func (f *fakeCart) Init(context.Context) error {
	f.initCalls++
	return f.initErr
}

func (f *fakeCart) Reset() { f.resets++ }

func TestLogin_PersistsSessionAndLoadsCart(t *testing.T) {
	apiFake := &fakeAPI{user: domidentity.User{ID: 7, Name: "Ari", Role: domidentity.RoleCustomer}}
	sess := &fakeSession{}
	cart := &fakeCart{}
	svc := NewService(apiFake, sess, cart, nil)

	u, err := svc.Login(context.Background(), "ari@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "fresh-token", sess.token)
	assert.Equal(t, 1, cart.initCalls)
}

func TestLogin_Validation(t *testing.T) {
	svc := NewService(&fakeAPI{}, &fakeSession{}, &fakeCart{}, nil)

	_, err := svc.Login(context.Background(), "", "hunter2")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	_, err = svc.Login(context.Background(), "ari@example.com", "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestLogin_BadCredentials(t *testing.T) {
	apiFake := &fakeAPI{loginErr: shared.ErrUnauthorized}
	sess := &fakeSession{}
	svc := NewService(apiFake, sess, &fakeCart{}, nil)

	_, err := svc.Login(context.Background(), "ari@example.com", "wrong")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	assert.Empty(t, sess.token)
}

func TestLogin_CartFailureDoesNotFailLogin(t *testing.T) {
	apiFake := &fakeAPI{user: domidentity.User{ID: 7}}
	cart := &fakeCart{initErr: shared.ErrNetwork}
	svc := NewService(apiFake, &fakeSession{}, cart, nil)

	_, err := svc.Login(context.Background(), "ari@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, 1, cart.initCalls)
}

func TestLogout_ClearsSessionAndCart(t *testing.T) {
	sess := &fakeSession{token: "tok", user: domidentity.User{ID: 7}}
	cart := &fakeCart{}
	svc := NewService(&fakeAPI{}, sess, cart, nil)

	require.NoError(t, svc.Logout())
	assert.True(t, sess.cleared)
	assert.False(t, sess.Authenticated())
	assert.Equal(t, 1, cart.resets)
}

func TestCurrent_RequiresSession(t *testing.T) {
	svc := NewService(&fakeAPI{}, &fakeSession{}, &fakeCart{}, nil)
	_, err := svc.Current(context.Background())
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestRequestSeller_OnlyCustomers(t *testing.T) {
	apiFake := &fakeAPI{sellerReq: &domidentity.SellerRequest{ID: 1}}
	sess := &fakeSession{token: "tok", user: domidentity.User{ID: 7, Role: domidentity.RoleSeller}}
	svc := NewService(apiFake, sess, &fakeCart{}, nil)

	_, err := svc.RequestSeller(context.Background(), "Ari Kicks", "I sell shoes")
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	sess.user.Role = domidentity.RoleCustomer
	_, err = svc.RequestSeller(context.Background(), "", "")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	req, err := svc.RequestSeller(context.Background(), "Ari Kicks", "I sell shoes")
	require.NoError(t, err)
	assert.Equal(t, int64(1), req.ID)
}
