package admin

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoestore/storefront/internal/domain/identity"
	"github.com/shoestore/storefront/internal/domain/shared"
)

type fakeAPI struct {
	calls []string
	users []identity.User
	rates map[string]decimal.Decimal
}

func (f *fakeAPI) ListUsers(context.Context) ([]identity.User, error) {
	f.calls = append(f.calls, "listUsers")
	return f.users, nil
}

func (f *fakeAPI) UpdateUserRole(_ context.Context, userID int64, role identity.Role) (*identity.User, error) {
	f.calls = append(f.calls, "updateRole")
	return &identity.User{ID: userID, Role: role}, nil
}

func (f *fakeAPI) DeleteUser(context.Context, int64) error {
	f.calls = append(f.calls, "deleteUser")
	return nil
}

func (f *fakeAPI) ListSellerRequests(context.Context) ([]identity.SellerRequest, error) {
	f.calls = append(f.calls, "listRequests")
	return nil, nil
}

func (f *fakeAPI) ApproveSellerRequest(context.Context, int64) error {
	f.calls = append(f.calls, "approve")
	return nil
}

func (f *fakeAPI) RejectSellerRequest(context.Context, int64, string) error {
	f.calls = append(f.calls, "reject")
	return nil
}

func (f *fakeAPI) UpdateCurrencyRates(_ context.Context, rates map[string]decimal.Decimal) error {
	f.calls = append(f.calls, "updateRates")
	f.rates = rates
	return nil
}

type fakeSession struct {
	ok   bool
	user identity.User
}

func (f *fakeSession) Authenticated() bool { return f.ok }
func (f *fakeSession) User() identity.User { return f.user }

func adminSession() *fakeSession {
	return &fakeSession{ok: true, user: identity.User{ID: 1, Role: identity.RoleAdmin}}
}

func TestService_RoleGuard(t *testing.T) {
	apiFake := &fakeAPI{}

	// Signed out.
	svc := NewService(apiFake, &fakeSession{}, nil)
	_, err := svc.Users(context.Background())
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	// Signed in, wrong role.
	svc = NewService(apiFake, &fakeSession{ok: true, user: identity.User{ID: 2, Role: identity.RoleSeller}}, nil)
	_, err = svc.Users(context.Background())
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Error(t, svc.ApproveSeller(context.Background(), 1))
	assert.Error(t, svc.SetRates(context.Background(), map[string]decimal.Decimal{"IDR": decimal.New(15000, 0)}))

	// Nothing reached the server.
	assert.Empty(t, apiFake.calls)
}

func TestSetRole_SelfDemotionRejected(t *testing.T) {
	apiFake := &fakeAPI{}
	svc := NewService(apiFake, adminSession(), nil)

	_, err := svc.SetRole(context.Background(), 1, identity.RoleCustomer)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.SetRole(context.Background(), 2, identity.Role("superuser"))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	u, err := svc.SetRole(context.Background(), 2, identity.RoleSeller)
	require.NoError(t, err)
	assert.Equal(t, identity.RoleSeller, u.Role)
}

func TestRemoveUser_SelfRejected(t *testing.T) {
	apiFake := &fakeAPI{}
	svc := NewService(apiFake, adminSession(), nil)

	assert.ErrorIs(t, svc.RemoveUser(context.Background(), 1), shared.ErrInvalidInput)
	require.NoError(t, svc.RemoveUser(context.Background(), 2))
	assert.Equal(t, []string{"deleteUser"}, apiFake.calls)
}

func TestSetRates_Validation(t *testing.T) {
	apiFake := &fakeAPI{}
	svc := NewService(apiFake, adminSession(), nil)

	assert.ErrorIs(t, svc.SetRates(context.Background(), nil), shared.ErrInvalidInput)
	assert.ErrorIs(t, svc.SetRates(context.Background(),
		map[string]decimal.Decimal{"USD": decimal.New(2, 0)}), shared.ErrInvalidInput)
	assert.ErrorIs(t, svc.SetRates(context.Background(),
		map[string]decimal.Decimal{"IDR": decimal.Zero}), shared.ErrInvalidInput)

	rates := map[string]decimal.Decimal{"IDR": decimal.New(15500, 0)}
	require.NoError(t, svc.SetRates(context.Background(), rates))
	assert.Equal(t, rates, apiFake.rates)
}
