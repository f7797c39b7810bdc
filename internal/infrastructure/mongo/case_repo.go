package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/port"
	"github.com/bibbank/collections/internal/domain/valueobject"
)

// Compile-time interface check
var _ port.CaseRepository = (*CaseRepo)(nil)

// CaseRepo implements port.CaseRepository on a MongoDB collection holding
// one document per case.
type CaseRepo struct {
	coll *mongo.Collection
}

// NewCaseRepo creates a new MongoDB-backed case repository.
func NewCaseRepo(db *mongo.Database) *CaseRepo {
	return &CaseRepo{coll: db.Collection(CasesCollection)}
}

// Save writes the whole aggregate with a compare-and-set on its revision.
// A case with revision 0 is inserted.
func (r *CaseRepo) Save(ctx context.Context, c model.DebtCase) (model.DebtCase, error) {
	rec := c.Record()
	next := rec.Version + 1

	doc, err := toCaseDocument(rec, next)
	if err != nil {
		return model.DebtCase{}, fmt.Errorf("save debt case: %w", err)
	}

	if rec.Version == 0 {
		if _, err := r.coll.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return model.DebtCase{}, fmt.Errorf("debt case %s already exists: %w", rec.ID, model.ErrConcurrentModification)
			}
			return model.DebtCase{}, fmt.Errorf("insert debt case: %w", err)
		}
		return c.ClearEvents().WithVersion(next), nil
	}

	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: rec.ID}, {Key: "version", Value: rec.Version}}, doc)
	if err != nil {
		return model.DebtCase{}, fmt.Errorf("replace debt case: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.DebtCase{}, fmt.Errorf("debt case %s at revision %d: %w", rec.ID, rec.Version, model.ErrConcurrentModification)
	}
	return c.ClearEvents().WithVersion(next), nil
}

func (r *CaseRepo) FindByID(ctx context.Context, id string) (model.DebtCase, error) {
	var doc caseDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.DebtCase{}, model.ErrCaseNotFound
		}
		return model.DebtCase{}, fmt.Errorf("find debt case: %w", err)
	}
	return doc.toModel()
}

func (r *CaseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete debt case: %w", err)
	}
	if res.DeletedCount == 0 {
		return model.ErrCaseNotFound
	}
	return nil
}

func (r *CaseRepo) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check debt case: %w", err)
	}
	return n > 0, nil
}

// Search returns one page of matching cases and the total match count.
func (r *CaseRepo) Search(ctx context.Context, filter port.CaseFilter, page port.PageRequest) ([]model.DebtCase, int, error) {
	query, err := buildFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count debt cases: %w", err)
	}
	if total == 0 || int64(page.Offset()) >= total {
		return nil, int(total), nil
	}

	opts := options.Find().
		SetSort(buildSort(page.Sort)).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Size))
	cases, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return cases, int(total), nil
}

// ListActive returns every case not yet completed.
func (r *CaseRepo) ListActive(ctx context.Context) ([]model.DebtCase, error) {
	query := bson.D{{Key: "currentState", Value: bson.D{{Key: "$ne", Value: valueobject.CaseStateCompleted.String()}}}}
	return r.find(ctx, query, options.Find().SetSort(bson.D{{Key: "nextDeadlineDate", Value: 1}, {Key: "_id", Value: 1}}))
}

func (r *CaseRepo) find(ctx context.Context, query bson.D, opts *options.FindOptions) ([]model.DebtCase, error) {
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("query debt cases: %w", err)
	}
	defer cur.Close(ctx)

	var out []model.DebtCase
	for cur.Next(ctx) {
		var doc caseDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode debt case: %w", err)
		}
		c, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate debt cases: %w", err)
	}
	return out, nil
}
