package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/goliatone/go-deepwood/internal/adapters/mongostore"
)

const orderCollection = "orders"

type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository ensures the unique order number index exists.
func NewMongoRepository(ctx context.Context, db *mongo.Database) (*MongoRepository, error) {
	coll := db.Collection(orderCollection)
	if err := mongostore.EnsureUniqueIndex(ctx, coll, "number"); err != nil {
		return nil, err
	}
	return &MongoRepository{coll: coll}, nil
}

func (r *MongoRepository) Create(ctx context.Context, record *Order) (*Order, error) {
	doc := orderToDocument(record)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongostore.IsDuplicateOn(err, "number") {
			return nil, fmt.Errorf("%w: %s", ErrNumberAlreadyExists, record.Number)
		}
		return nil, fmt.Errorf("order repository error: %w", err)
	}
	return doc.toOrder()
}

func (r *MongoRepository) Update(ctx context.Context, record *Order) (*Order, error) {
	doc := orderToDocument(record)
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return nil, fmt.Errorf("order repository error: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, &NotFoundError{Resource: "order", Key: doc.ID}
	}
	return doc.toOrder()
}

func (r *MongoRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()}, id.String())
}

func (r *MongoRepository) GetByNumber(ctx context.Context, number string) (*Order, error) {
	return r.findOne(ctx, bson.M{"number": number}, number)
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M, key string) (*Order, error) {
	var doc orderDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if mongostore.IsNotFound(err) {
			return nil, &NotFoundError{Resource: "order", Key: key}
		}
		return nil, fmt.Errorf("order repository error: %w", err)
	}
	return doc.toOrder()
}

func (r *MongoRepository) List(ctx context.Context, opts ListOptions) ([]*Order, int, error) {
	filter := bson.M{}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("order repository error: %w", err)
	}
	cursor, err := r.coll.Find(ctx, filter, mongostore.Page("created_at", true, opts.Limit, opts.Offset))
	if err != nil {
		return nil, 0, fmt.Errorf("order repository error: %w", err)
	}
	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("order repository error: %w", err)
	}
	out := make([]*Order, 0, len(docs))
	for _, doc := range docs {
		o, err := doc.toOrder()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, int(total), nil
}

type itemDocument struct {
	ProductID string `bson:"product_id"`
	Slug      string `bson:"slug"`
	Name      string `bson:"name"`
	Quantity  int    `bson:"quantity"`
	UnitPrice int64  `bson:"unit_price"`
}

type orderDocument struct {
	ID        string         `bson:"_id"`
	Number    string         `bson:"number"`
	Customer  Customer       `bson:"customer"`
	Items     []itemDocument `bson:"items"`
	Subtotal  int64          `bson:"subtotal"`
	Currency  string         `bson:"currency"`
	Locale    string         `bson:"locale"`
	Notes     string         `bson:"notes,omitempty"`
	Status    string         `bson:"status"`
	CreatedAt time.Time      `bson:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

func orderToDocument(o *Order) orderDocument {
	items := make([]itemDocument, len(o.Items))
	for i, it := range o.Items {
		items[i] = itemDocument{
			ProductID: it.ProductID.String(),
			Slug:      it.Slug,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}
	return orderDocument{
		ID:        o.ID.String(),
		Number:    o.Number,
		Customer:  o.Customer,
		Items:     items,
		Subtotal:  o.Subtotal,
		Currency:  o.Currency,
		Locale:    o.Locale,
		Notes:     o.Notes,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.UTC(),
		UpdatedAt: o.UpdatedAt.UTC(),
	}
}

func (d orderDocument) toOrder() (*Order, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("order document %q: %w", d.ID, err)
	}
	items := make([]Item, len(d.Items))
	for i, it := range d.Items {
		pid, err := uuid.Parse(it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("order document %q item %d: %w", d.ID, i, err)
		}
		items[i] = Item{ProductID: pid, Slug: it.Slug, Name: it.Name, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return &Order{
		ID:        id,
		Number:    d.Number,
		Customer:  d.Customer,
		Items:     items,
		Subtotal:  d.Subtotal,
		Currency:  d.Currency,
		Locale:    d.Locale,
		Notes:     d.Notes,
		Status:    Status(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}
