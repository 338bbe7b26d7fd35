package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoestore/storefront/internal/domain/identity"
	"github.com/shoestore/storefront/internal/domain/order"
	"github.com/shoestore/storefront/internal/domain/shared"
	"github.com/shoestore/storefront/internal/domain/shop"
	"github.com/shoestore/storefront/internal/infrastructure/api"
)

type fakeAPI struct {
	shoes      []shop.Shoe
	created    *api.ShoeForm
	deleted    []int64
	lastQuery  shop.Filter
	lastStatus order.Status
}

func (f *fakeAPI) ListShoes(_ context.Context, filter shop.Filter) ([]shop.Shoe, error) {
	f.lastQuery = filter
	return f.shoes, nil
}

func (f *fakeAPI) GetShoe(_ context.Context, id int64) (*shop.Shoe, error) {
	for _, s := range f.shoes {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeAPI) CreateShoe(_ context.Context, form api.ShoeForm) (*shop.Shoe, error) {
	f.created = &form
	return &shop.Shoe{ID: 99, Name: form.Name, Price: form.Price}, nil
}

func (f *fakeAPI) UpdateShoe(_ context.Context, id int64, form api.ShoeForm) (*shop.Shoe, error) {
	return &shop.Shoe{ID: id, Name: form.Name, Price: form.Price}, nil
}

func (f *fakeAPI) DeleteShoe(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) UpdateOrderStatus(_ context.Context, id int64, status order.Status) (*order.Order, error) {
	f.lastStatus = status
	return &order.Order{ID: id, Status: status}, nil
}

type fakeSession struct {
	ok   bool
	user identity.User
}

func (f *fakeSession) Authenticated() bool { return f.ok }
func (f *fakeSession) User() identity.User { return f.user }

func validForm() api.ShoeForm {
	return api.ShoeForm{Name: "Trail Runner", Brand: "Acme", Price: decimal.NewFromInt(80), Stock: 5}
}

func TestBrowse_NeedsNoSession(t *testing.T) {
	apiFake := &fakeAPI{shoes: []shop.Shoe{{ID: 1, Name: "Runner"}}}
	svc := NewService(apiFake, &fakeSession{}, nil)

	shoes, err := svc.Browse(context.Background(), shop.Filter{Brand: "Acme"})
	require.NoError(t, err)
	assert.Len(t, shoes, 1)
	assert.Equal(t, "Acme", apiFake.lastQuery.Brand)
}

func TestSellerSurface_RoleGuard(t *testing.T) {
	apiFake := &fakeAPI{}

	svc := NewService(apiFake, &fakeSession{}, nil)
	_, err := svc.Create(context.Background(), validForm())
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	svc = NewService(apiFake, &fakeSession{ok: true, user: identity.User{Role: identity.RoleCustomer}}, nil)
	_, err = svc.Create(context.Background(), validForm())
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(context.Background(), 1), shared.ErrForbidden)

	assert.Nil(t, apiFake.created)
	assert.Empty(t, apiFake.deleted)
}

func TestCreate_ValidatesForm(t *testing.T) {
	apiFake := &fakeAPI{}
	svc := NewService(apiFake, &fakeSession{ok: true, user: identity.User{ID: 3, Role: identity.RoleSeller}}, nil)

	form := validForm()
	form.Name = ""
	_, err := svc.Create(context.Background(), form)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	form = validForm()
	form.Price = decimal.Zero
	_, err = svc.Create(context.Background(), form)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	form = validForm()
	form.Stock = -1
	_, err = svc.Create(context.Background(), form)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	created, err := svc.Create(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, int64(99), created.ID)
}

func TestMyListings_FiltersBySeller(t *testing.T) {
	apiFake := &fakeAPI{shoes: []shop.Shoe{
		{ID: 1, SellerID: 3},
		{ID: 2, SellerID: 4},
		{ID: 3, SellerID: 3},
	}}
	svc := NewService(apiFake, &fakeSession{ok: true, user: identity.User{ID: 3, Role: identity.RoleSeller}}, nil)

	mine, err := svc.MyListings(context.Background())
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, s := range mine {
		assert.Equal(t, int64(3), s.SellerID)
	}
}

func TestUpdateOrderStatus_SellerOnly(t *testing.T) {
	apiFake := &fakeAPI{}
	svc := NewService(apiFake, &fakeSession{ok: true, user: identity.User{ID: 3, Role: identity.RoleCustomer}}, nil)
	_, err := svc.UpdateOrderStatus(context.Background(), 7, order.StatusShipped)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	svc = NewService(apiFake, &fakeSession{ok: true, user: identity.User{ID: 3, Role: identity.RoleSeller}}, nil)
	_, err = svc.UpdateOrderStatus(context.Background(), 7, order.Status("LOST"))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	updated, err := svc.UpdateOrderStatus(context.Background(), 7, order.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, updated.Status)
	assert.Equal(t, order.StatusShipped, apiFake.lastStatus)
}
