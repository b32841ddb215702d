package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/goliatone/go-deepwood/internal/adapters/mongostore"
	"github.com/goliatone/go-deepwood/internal/domain"
)

const projectCollection = "projects"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(ctx context.Context, db *mongo.Database) (*MongoRepository, error) {
	coll := db.Collection(projectCollection)
	if err := mongostore.EnsureUniqueIndex(ctx, coll, "slug"); err != nil {
		return nil, err
	}
	return &MongoRepository{coll: coll}, nil
}

func (r *MongoRepository) Create(ctx context.Context, record *Project) (*Project, error) {
	doc := projectToDocument(record)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, mongostore.MapConflict(err, projectNamespace, record.Slug, ErrProjectExists)
	}
	return doc.toProject()
}

func (r *MongoRepository) Update(ctx context.Context, record *Project) (*Project, error) {
	doc := projectToDocument(record)
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return nil, mongostore.MapConflict(err, projectNamespace, record.Slug, ErrProjectExists)
	}
	if res.MatchedCount == 0 {
		return nil, &NotFoundError{Resource: projectNamespace, Key: doc.ID}
	}
	return doc.toProject()
}

func (r *MongoRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()}, id.String())
}

func (r *MongoRepository) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	return r.findOne(ctx, bson.M{"slug": slug}, slug)
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M, key string) (*Project, error) {
	var doc projectDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if mongostore.IsNotFound(err) {
			return nil, &NotFoundError{Resource: projectNamespace, Key: key}
		}
		return nil, fmt.Errorf("%s repository error: %w", projectNamespace, err)
	}
	return doc.toProject()
}

func (r *MongoRepository) List(ctx context.Context, opts ListOptions) ([]*Project, int, error) {
	filter := bson.M{}
	if opts.Featured != nil {
		filter["featured"] = *opts.Featured
	}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	if opts.Year != 0 {
		filter["year"] = opts.Year
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%s repository error: %w", projectNamespace, err)
	}
	find := options.Find().SetSort(bson.D{{Key: "year", Value: -1}, {Key: "created_at", Value: -1}, {Key: "slug", Value: 1}})
	if opts.Limit > 0 {
		find.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		find.SetSkip(int64(opts.Offset))
	}
	cursor, err := r.coll.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, fmt.Errorf("%s repository error: %w", projectNamespace, err)
	}
	var docs []projectDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("%s repository error: %w", projectNamespace, err)
	}
	out := make([]*Project, 0, len(docs))
	for _, doc := range docs {
		p, err := doc.toProject()
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
		return fmt.Errorf("%s repository error: %w", projectNamespace, err)
	}
	if res.DeletedCount == 0 {
		return &NotFoundError{Resource: projectNamespace, Key: id.String()}
	}
	return nil
}

func (r *MongoRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"slug": slug})
	return n > 0, err
}

type projectDocument struct {
	ID          string      `bson:"_id"`
	Slug        string      `bson:"slug"`
	Title       domain.Text `bson:"title"`
	Summary     domain.Text `bson:"summary"`
	Description domain.Text `bson:"description"`
	Location    domain.Text `bson:"location"`
	Year        int         `bson:"year"`
	Images      []string    `bson:"images,omitempty"`
	Featured    bool        `bson:"featured"`
	Status      string      `bson:"status"`
	CreatedAt   time.Time   `bson:"created_at"`
	UpdatedAt   time.Time   `bson:"updated_at"`
}

func projectToDocument(p *Project) projectDocument {
	c := cloneProject(p)
	return projectDocument{
		ID:          c.ID.String(),
		Slug:        c.Slug,
		Title:       c.Title,
		Summary:     c.Summary,
		Description: c.Description,
		Location:    c.Location,
		Year:        c.Year,
		Images:      c.Images,
		Featured:    c.Featured,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt.UTC(),
		UpdatedAt:   c.UpdatedAt.UTC(),
	}
}

func (d projectDocument) toProject() (*Project, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("%s document %q: %w", projectNamespace, d.ID, err)
	}
	return &Project{
		ID:          id,
		Slug:        d.Slug,
		Title:       d.Title,
		Summary:     d.Summary,
		Description: d.Description,
		Location:    d.Location,
		Year:        d.Year,
		Images:      d.Images,
		Featured:    d.Featured,
		Status:      domain.Status(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}
