package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/goliatone/go-deepwood/internal/adapters/mongostore"
	"github.com/goliatone/go-deepwood/internal/domain"
)

const productCollection = "products"

// MongoRepository stores products as documents with a unique slug index.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository ensures the slug index exists before returning.
func NewMongoRepository(ctx context.Context, db *mongo.Database) (*MongoRepository, error) {
	coll := db.Collection(productCollection)
	if err := mongostore.EnsureUniqueIndex(ctx, coll, "slug"); err != nil {
		return nil, err
	}
	return &MongoRepository{coll: coll}, nil
}

func (r *MongoRepository) Create(ctx context.Context, record *Product) (*Product, error) {
	doc := productToDocument(record)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, mongostore.MapConflict(err, productNamespace, record.Slug, ErrProductExists)
	}
	return doc.toProduct()
}

func (r *MongoRepository) Update(ctx context.Context, record *Product) (*Product, error) {
	doc := productToDocument(record)
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return nil, mongostore.MapConflict(err, productNamespace, record.Slug, ErrProductExists)
	}
	if res.MatchedCount == 0 {
		return nil, &NotFoundError{Resource: productNamespace, Key: doc.ID}
	}
	return doc.toProduct()
}

func (r *MongoRepository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()}, id.String())
}

func (r *MongoRepository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	return r.findOne(ctx, bson.M{"slug": slug}, slug)
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M, key string) (*Product, error) {
	var doc productDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if mongostore.IsNotFound(err) {
			return nil, &NotFoundError{Resource: productNamespace, Key: key}
		}
		return nil, fmt.Errorf("%s repository error: %w", productNamespace, err)
	}
	return doc.toProduct()
}

func (r *MongoRepository) List(ctx context.Context, opts ListOptions) ([]*Product, int, error) {
	filter := bson.M{}
	if opts.Category != "" {
		filter["category"] = opts.Category
	}
	if opts.Featured != nil {
		filter["featured"] = *opts.Featured
	}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%s repository error: %w", productNamespace, err)
	}
	cursor, err := r.coll.Find(ctx, filter, mongostore.Page("created_at", true, opts.Limit, opts.Offset))
	if err != nil {
		return nil, 0, fmt.Errorf("%s repository error: %w", productNamespace, err)
	}
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("%s repository error: %w", productNamespace, err)
	}

	out := make([]*Product, 0, len(docs))
	for _, doc := range docs {
		p, err := doc.toProduct()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, int(total), nil
}

func (r *MongoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("%s repository error: %w", productNamespace, err)
	}
	if res.DeletedCount == 0 {
		return &NotFoundError{Resource: productNamespace, Key: id.String()}
	}
	return nil
}

func (r *MongoRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"slug": slug})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type productDocument struct {
	ID          string         `bson:"_id"`
	Slug        string         `bson:"slug"`
	Name        domain.Text    `bson:"name"`
	Description domain.Text    `bson:"description"`
	Category    string         `bson:"category,omitempty"`
	Price       int64          `bson:"price"`
	Currency    string         `bson:"currency"`
	Images      []string       `bson:"images,omitempty"`
	Attributes  map[string]any `bson:"attributes,omitempty"`
	Featured    bool           `bson:"featured"`
	Status      string         `bson:"status"`
	CreatedAt   time.Time      `bson:"created_at"`
	UpdatedAt   time.Time      `bson:"updated_at"`
}

func productToDocument(p *Product) productDocument {
	c := cloneProduct(p)
	return productDocument{
		ID:          c.ID.String(),
		Slug:        c.Slug,
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
		Price:       c.Price,
		Currency:    c.Currency,
		Images:      c.Images,
		Attributes:  c.Attributes,
		Featured:    c.Featured,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt.UTC(),
		UpdatedAt:   c.UpdatedAt.UTC(),
	}
}

func (d productDocument) toProduct() (*Product, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("%s document %q: %w", productNamespace, d.ID, err)
	}
	return cloneProduct(&Product{
		ID:          id,
		Slug:        d.Slug,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Price:       d.Price,
		Currency:    d.Currency,
		Images:      d.Images,
		Attributes:  d.Attributes,
		Featured:    d.Featured,
		Status:      domain.Status(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}), nil
}
