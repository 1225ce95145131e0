package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
)

// counterID is the reserved item that holds the id sequence.
const counterID = 0

// DynamoAPI is the subset of *dynamodb.Client the adapter calls.
type DynamoAPI interface {
	dynamodb.ScanAPIClient
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoAdapter stores products in a table keyed by the numeric attribute `id`.
type DynamoAdapter struct {
	client DynamoAPI
	table  string
	now    func() time.Time
}

func NewDynamoAdapter(client DynamoAPI, table string) *DynamoAdapter {
	return &DynamoAdapter{client: client, table: table, now: time.Now}
}

type ddbProduct struct {
	ID            int64   `dynamodbav:"id"`
	Name          string  `dynamodbav:"name"`
	Description   string  `dynamodbav:"description"`
	Price         float64 `dynamodbav:"price"`
	Category      string  `dynamodbav:"category"`
	CategoryLower string  `dynamodbav:"category_lc"`
	ImageURL      *string `dynamodbav:"image_url,omitempty"`
	Stock         int     `dynamodbav:"stock"`
	IsActive      bool    `dynamodbav:"is_active"`
	CreatedAt     string  `dynamodbav:"created_at"`
	UpdatedAt     string  `dynamodbav:"updated_at"`
}

func toDDB(p models.Product) ddbProduct {
	dp := ddbProduct{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		CategoryLower: strings.ToLower(p.Category),
		Stock:         p.Stock,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:     p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if p.ImageURL != "" {
		dp.ImageURL = &p.ImageURL
	}
	return dp
}

func (dp ddbProduct) toModel() models.Product {
	p := models.Product{
		ID:          dp.ID,
		Name:        dp.Name,
		Description: dp.Description,
		Price:       dp.Price,
		Category:    dp.Category,
		Stock:       dp.Stock,
		IsActive:    dp.IsActive,
	}
	if dp.ImageURL != nil {
		p.ImageURL = *dp.ImageURL
	}
	if t, err := time.Parse(time.RFC3339Nano, dp.CreatedAt); err == nil {
		p.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, dp.UpdatedAt); err == nil {
		p.UpdatedAt = t
	}
	return p
}

func idKey(id int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
	}
}

func (d *DynamoAdapter) scan(ctx context.Context, input *dynamodb.ScanInput) ([]models.Product, error) {
	out := []models.Product{}
	paginator := dynamodb.NewScanPaginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb Scan failed: %w", err)
		}
		for _, item := range page.Items {
			var dp ddbProduct
			if err := attributevalue.UnmarshalMap(item, &dp); err != nil {
				return nil, fmt.Errorf("unmarshal item: %w", err)
			}
			if dp.ID == counterID {
				continue
			}
			out = append(out, dp.toModel())
		}
	}
	// Scan order is unspecified; callers expect id order.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *DynamoAdapter) GetAll(ctx context.Context) ([]models.Product, error) {
	return d.scan(ctx, &dynamodb.ScanInput{TableName: aws.String(d.table)})
}

func (d *DynamoAdapter) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 || id == counterID {
		return nil, nil
	}
	var dp ddbProduct
	if err := attributevalue.UnmarshalMap(out.Item, &dp); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	p := dp.toModel()
	return &p, nil
}

// nextID atomically bumps the counter item and returns the new value.
func (d *DynamoAdapter) nextID(ctx context.Context) (int64, error) {
	out, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(d.table),
		Key:              idKey(counterID),
		UpdateExpression: aws.String("ADD seq :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("dynamodb UpdateItem (id sequence) failed: %w", err)
	}
	var seq struct {
		Seq int64 `dynamodbav:"seq"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &seq); err != nil {
		return 0, fmt.Errorf("unmarshal id sequence: %w", err)
	}
	return seq.Seq, nil
}

func (d *DynamoAdapter) put(ctx context.Context, p models.Product, condition string) error {
	item, err := attributevalue.MarshalMap(toDDB(p))
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.table),
		Item:                item,
		ConditionExpression: aws.String(condition),
	})
	return err
}

func (d *DynamoAdapter) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	id, err := d.nextID(ctx)
	if err != nil {
		return nil, err
	}
	p := models.NewProduct(id, req, d.now())
	if err := d.put(ctx, p, "attribute_not_exists(id)"); err != nil {
		return nil, fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return &p, nil
}

func (d *DynamoAdapter) Update(ctx context.Context, id int64, req models.UpdateProductRequest) (*models.Product, error) {
	current, err := d.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrProductNotFound
	}
	req.Apply(current, d.now())
	if err := d.put(ctx, *current, "attribute_exists(id)"); err != nil {
		if isConditionFailed(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return current, nil
}

func (d *DynamoAdapter) Delete(ctx context.Context, id int64) error {
	if id == counterID {
		return ErrProductNotFound
	}
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(d.table),
		Key:                 idKey(id),
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrProductNotFound
		}
		return fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	return nil
}

func (d *DynamoAdapter) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	if category == "" {
		return d.GetAll(ctx)
	}
	return d.scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(d.table),
		FilterExpression: aws.String("contains(category_lc, :c)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: strings.ToLower(category)},
		},
	})
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
