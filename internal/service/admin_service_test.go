package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/feira/pkg/api"
)

func TestAdminRequiresAdministrator(t *testing.T) {
	env := setupTestServer(t)
	env.beneficiary("alice@example.com", "100.00", false)

	for _, email := range []string{"alice@example.com", "stranger@example.com"} {
		_, err := env.admin(email).ListBeneficiaries(context.Background(), connect.NewRequest(&api.ListBeneficiariesRequest{}))
		assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err), email)
	}
}

func TestAdminBeneficiaries(t *testing.T) {
	env := setupTestServer(t)
	env.beneficiary("admin@example.com", "", true)
	client := env.admin("admin@example.com")
	ctx := context.Background()

	created, err := client.CreateBeneficiary(ctx, connect.NewRequest(&api.CreateBeneficiaryRequest{
		BeneficiaryInput: api.BeneficiaryInput{Name: "Alice", Email: "Alice@Example.com", MonthlyStipend: "100"},
	}))
	require.NoError(t, err)
	b := created.Msg.Beneficiary
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "alice@example.com", b.Email)
	assert.Equal(t, "100.00", b.MonthlyStipend)

	t.Run("validation", func(t *testing.T) {
		inputs := []api.BeneficiaryInput{
			{Name: "", Email: "x@example.com"},
			{Name: "X", Email: "not-an-email"},
			{Name: "X", Email: "x@example.com", MonthlyStipend: "-1"},
			{Name: "X", Email: "x@example.com", MonthlyStipend: "10.005"},
			{Name: "X", Email: "x@example.com", MonthlyStipend: "ten"},
		}
		for _, in := range inputs {
			_, err := client.CreateBeneficiary(ctx, connect.NewRequest(&api.CreateBeneficiaryRequest{BeneficiaryInput: in}))
			assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err), "%+v", in)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := client.CreateBeneficiary(ctx, connect.NewRequest(&api.CreateBeneficiaryRequest{
			BeneficiaryInput: api.BeneficiaryInput{Name: "Other", Email: "alice@example.com"},
		}))
		assert.Equal(t, connect.CodeAlreadyExists, connect.CodeOf(err))
	})

	t.Run("stipend change leaves open list ceiling alone", func(t *testing.T) {
		shop := env.shopping("alice@example.com")
		opened, err := shop.ListProducts(ctx, connect.NewRequest(&api.ListProductsRequest{}))
		require.NoError(t, err)
		assert.Equal(t, "300.00", opened.Msg.List.Ceiling)

		updated, err := client.UpdateBeneficiary(ctx, connect.NewRequest(&api.UpdateBeneficiaryRequest{
			ID:               b.ID,
			BeneficiaryInput: api.BeneficiaryInput{Name: "Alice", Email: "alice@example.com", MonthlyStipend: "200.00"},
		}))
		require.NoError(t, err)
		assert.Equal(t, "200.00", updated.Msg.Beneficiary.MonthlyStipend)

		mine, err := shop.GetMyList(ctx, connect.NewRequest(&api.GetMyListRequest{}))
		require.NoError(t, err)
		assert.Equal(t, "300.00", mine.Msg.List.Ceiling)
	})

	t.Run("beneficiary with lists is protected", func(t *testing.T) {
		_, err := client.DeleteBeneficiary(ctx, connect.NewRequest(&api.DeleteBeneficiaryRequest{ID: b.ID}))
		assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))
	})

	t.Run("delete without lists", func(t *testing.T) {
		other, err := client.CreateBeneficiary(ctx, connect.NewRequest(&api.CreateBeneficiaryRequest{
			BeneficiaryInput: api.BeneficiaryInput{Name: "Bruno", Email: "bruno@example.com"},
		}))
		require.NoError(t, err)
		_, err = client.DeleteBeneficiary(ctx, connect.NewRequest(&api.DeleteBeneficiaryRequest{ID: other.Msg.Beneficiary.ID}))
		require.NoError(t, err)

		_, err = client.UpdateBeneficiary(ctx, connect.NewRequest(&api.UpdateBeneficiaryRequest{
			ID:               other.Msg.Beneficiary.ID,
			BeneficiaryInput: api.BeneficiaryInput{Name: "Bruno", Email: "bruno@example.com"},
		}))
		assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	})

	list, err := client.ListBeneficiaries(ctx, connect.NewRequest(&api.ListBeneficiariesRequest{}))
	require.NoError(t, err)
	assert.Len(t, list.Msg.Beneficiaries, 2)
}

func TestAdminProducts(t *testing.T) {
	env := setupTestServer(t)
	env.beneficiary("admin@example.com", "", true)
	env.beneficiary("alice@example.com", "100.00", false)
	client := env.admin("admin@example.com")
	ctx := context.Background()

	created, err := client.CreateProduct(ctx, connect.NewRequest(&api.CreateProductRequest{
		ProductInput: api.ProductInput{Name: "Coffee", UnitPrice: "18.90", Unit: "kg", Available: true},
	}))
	require.NoError(t, err)
	coffee := created.Msg.Product
	assert.Equal(t, "18.90", coffee.UnitPrice)

	_, err = client.CreateProduct(ctx, connect.NewRequest(&api.CreateProductRequest{
		ProductInput: api.ProductInput{Name: "Bad", UnitPrice: "1.234"},
	}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	shop := env.shopping("alice@example.com")
	added, err := shop.AddToList(ctx, connect.NewRequest(&api.AddToListRequest{ProductID: coffee.ID, Quantity: 2}))
	require.NoError(t, err)

	t.Run("price change does not touch captured price", func(t *testing.T) {
		_, err := client.UpdateProduct(ctx, connect.NewRequest(&api.UpdateProductRequest{
			ID:           coffee.ID,
			ProductInput: api.ProductInput{Name: "Coffee", UnitPrice: "25.00", Unit: "kg", Available: true},
		}))
		require.NoError(t, err)

		mine, err := shop.GetMyList(ctx, connect.NewRequest(&api.GetMyListRequest{}))
		require.NoError(t, err)
		assert.Equal(t, "18.90", mine.Msg.List.Entries[0].UnitPrice)
		assert.Equal(t, "37.80", mine.Msg.List.Total)
	})

	t.Run("unavailable product stays on the list but cannot be added", func(t *testing.T) {
		_, err := client.UpdateProduct(ctx, connect.NewRequest(&api.UpdateProductRequest{
			ID:           coffee.ID,
			ProductInput: api.ProductInput{Name: "Coffee", UnitPrice: "25.00", Available: false},
		}))
		require.NoError(t, err)

		_, err = shop.AddToList(ctx, connect.NewRequest(&api.AddToListRequest{ProductID: coffee.ID, Quantity: 1}))
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

		_, err = shop.UpdateListEntry(ctx, connect.NewRequest(&api.UpdateListEntryRequest{
			EntryID: added.Msg.List.Entries[0].ID, Quantity: 3,
		}))
		assert.NoError(t, err)

		all, err := client.ListAllProducts(ctx, connect.NewRequest(&api.ListAllProductsRequest{}))
		require.NoError(t, err)
		assert.Len(t, all.Msg.Products, 1)
	})

	t.Run("referenced product is protected", func(t *testing.T) {
		_, err := client.DeleteProduct(ctx, connect.NewRequest(&api.DeleteProductRequest{ID: coffee.ID}))
		assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))
	})
}

func TestAdminPurchaseLists(t *testing.T) {
	env := setupTestServer(t)
	env.beneficiary("admin@example.com", "", true)
	alice := env.beneficiary("alice@example.com", "100.00", false)
	env.beneficiary("bob@example.com", "50.00", false)
	bread := env.product("Bread", "7.25", true)
	client := env.admin("admin@example.com")
	ctx := context.Background()

	added, err := env.shopping("alice@example.com").AddToList(ctx, connect.NewRequest(&api.AddToListRequest{ProductID: bread.ID, Quantity: 4}))
	require.NoError(t, err)
	_, err = env.shopping("bob@example.com").ListProducts(ctx, connect.NewRequest(&api.ListProductsRequest{}))
	require.NoError(t, err)

	all, err := client.ListPurchaseLists(ctx, connect.NewRequest(&api.ListPurchaseListsRequest{}))
	require.NoError(t, err)
	assert.Len(t, all.Msg.Lists, 2)

	byAlice, err := client.ListPurchaseLists(ctx, connect.NewRequest(&api.ListPurchaseListsRequest{BeneficiaryID: alice.ID}))
	require.NoError(t, err)
	require.Len(t, byAlice.Msg.Lists, 1)
	assert.Equal(t, "29.00", byAlice.Msg.Lists[0].Total)
	assert.Equal(t, 1, byAlice.Msg.Lists[0].EntryCount)
	assert.Empty(t, byAlice.Msg.Lists[0].Entries)

	_, err = client.ListPurchaseLists(ctx, connect.NewRequest(&api.ListPurchaseListsRequest{Status: "bogus"}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	got, err := client.GetPurchaseList(ctx, connect.NewRequest(&api.GetPurchaseListRequest{ID: added.Msg.List.ID}))
	require.NoError(t, err)
	require.Len(t, got.Msg.List.Entries, 1)
	assert.Equal(t, "Bread", got.Msg.List.Entries[0].ProductName)

	finalized, err := client.SetListStatus(ctx, connect.NewRequest(&api.SetListStatusRequest{ID: added.Msg.List.ID, Status: "finalized"}))
	require.NoError(t, err)
	assert.Equal(t, "finalized", finalized.Msg.List.Status)
	assert.Equal(t, "29.00", finalized.Msg.List.Total)

	_, err = client.SetListStatus(ctx, connect.NewRequest(&api.SetListStatusRequest{ID: added.Msg.List.ID, Status: "cancelled"}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	open, err := client.ListPurchaseLists(ctx, connect.NewRequest(&api.ListPurchaseListsRequest{Status: "open"}))
	require.NoError(t, err)
	require.Len(t, open.Msg.Lists, 1)
	assert.NotEqual(t, alice.ID, open.Msg.Lists[0].BeneficiaryID)

	// The next catalog visit opens a fresh list.
	next, err := env.shopping("alice@example.com").ListProducts(ctx, connect.NewRequest(&api.ListProductsRequest{}))
	require.NoError(t, err)
	assert.NotEqual(t, added.Msg.List.ID, next.Msg.List.ID)
	assert.Equal(t, "0.00", next.Msg.List.Total)
}
