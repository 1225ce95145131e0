package repository

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
)

// fakeDynamo keeps items keyed by their numeric id and understands only the
// expressions the adapter issues.
type fakeDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func keyOf(item map[string]types.AttributeValue) string {
	return item["id"].(*types.AttributeValueMemberN).Value
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.items[keyOf(in.Key)]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := keyOf(in.Item)
	_, exists := f.items[k]
	cond := aws.ToString(in.ConditionExpression)
	if (cond == "attribute_exists(id)" && !exists) || (cond == "attribute_not_exists(id)" && exists) {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("conditional check failed")}
	}
	f.items[k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := keyOf(in.Key)
	item, ok := f.items[k]
	if !ok {
		item = map[string]types.AttributeValue{"id": in.Key["id"]}
	}
	seq := int64(0)
	if v, ok := item["seq"].(*types.AttributeValueMemberN); ok {
		seq, _ = strconv.ParseInt(v.Value, 10, 64)
	}
	seq++
	item["seq"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(seq, 10)}
	f.items[k] = item
	return &dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{"seq": item["seq"]}}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := keyOf(in.Key)
	if _, ok := f.items[k]; !ok {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("conditional check failed")}
	}
	delete(f.items, k)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var needle string
	if v, ok := in.ExpressionAttributeValues[":c"].(*types.AttributeValueMemberS); ok {
		needle = v.Value
	}
	out := &dynamodb.ScanOutput{}
	for _, item := range f.items {
		if needle != "" {
			lc, ok := item["category_lc"].(*types.AttributeValueMemberS)
			if !ok || !strings.Contains(lc.Value, needle) {
				continue
			}
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func newTestDynamo() *DynamoAdapter {
	d := NewDynamoAdapter(newFakeDynamo(), "Products")
	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	d.now = func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
	return d
}

func TestDynamoAdapter_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestDynamo()

	a, err := repo.Create(ctx, models.CreateProductRequest{Name: "A", Price: 1, Category: "Electronics", ImageURL: "http://img/a"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, models.CreateProductRequest{Name: "B", Price: 2, Category: "Audio"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Name)
}

func TestDynamoAdapter_MissingAndCounterHidden(t *testing.T) {
	ctx := context.Background()
	repo := newTestDynamo()
	_, err := repo.Create(ctx, models.CreateProductRequest{Name: "A", Price: 1})
	require.NoError(t, err)

	p, err := repo.GetByID(ctx, 0)
	assert.NoError(t, err)
	assert.Nil(t, p)

	p, err = repo.GetByID(ctx, 99)
	assert.NoError(t, err)
	assert.Nil(t, p)

	assert.ErrorIs(t, repo.Delete(ctx, 0), ErrProductNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 99), ErrProductNotFound)
	_, err = repo.Update(ctx, 99, models.UpdateProductRequest{})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDynamoAdapter_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestDynamo()
	created, err := repo.Create(ctx, models.CreateProductRequest{Name: "A", Price: 1, Stock: 4})
	require.NoError(t, err)

	inactive := false
	updated, err := repo.Update(ctx, created.ID, models.UpdateProductRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 4, updated.Stock)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	require.NoError(t, repo.Delete(ctx, created.ID))
	p, err := repo.GetByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestDynamoAdapter_GetByCategory(t *testing.T) {
	ctx := context.Background()
	repo := newTestDynamo()
	for _, c := range []string{"Electronics", "Audio", "Consumer Electronics"} {
		_, err := repo.Create(ctx, models.CreateProductRequest{Name: c, Price: 1, Category: c})
		require.NoError(t, err)
	}

	products, err := repo.GetByCategory(ctx, "ELECTRO")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Electronics", products[0].Category)
	assert.Equal(t, "Consumer Electronics", products[1].Category)
}
