package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bibbank/collections/internal/domain/model"
	"github.com/bibbank/collections/internal/domain/port"
	"github.com/bibbank/collections/internal/domain/valueobject"
)

// Compile-time interface check
var _ port.TransitionRuleRepository = (*RuleRepo)(nil)

type ruleDocument struct {
	ID               string    `bson:"_id"`
	FromState        string    `bson:"fromState"`
	ToState          string    `bson:"toState"`
	DaysToTransition int       `bson:"daysToTransition"`
	CreatedAt        time.Time `bson:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt"`
}

// RuleRepo implements port.TransitionRuleRepository on MongoDB.
type RuleRepo struct {
	coll *mongo.Collection
}

// NewRuleRepo creates a new MongoDB-backed transition rule repository.
func NewRuleRepo(db *mongo.Database) *RuleRepo {
	return &RuleRepo{coll: db.Collection(RulesCollection)}
}

func (r *RuleRepo) FindAll(ctx context.Context) ([]model.TransitionRule, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("query transition rules: %w", err)
	}
	defer cur.Close(ctx)

	var docs []ruleDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode transition rules: %w", err)
	}
	rules := make([]model.TransitionRule, 0, len(docs))
	for _, d := range docs {
		rule, err := d.toModel()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (r *RuleRepo) FindByState(ctx context.Context, from valueobject.CaseState) (model.TransitionRule, error) {
	var doc ruleDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "fromState", Value: from.String()}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.TransitionRule{}, model.ErrRuleNotFound
		}
		return model.TransitionRule{}, fmt.Errorf("find transition rule: %w", err)
	}
	return doc.toModel()
}

func (r *RuleRepo) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count transition rules: %w", err)
	}
	return int(n), nil
}

// Save upserts a rule keyed by its originating state.
func (r *RuleRepo) Save(ctx context.Context, rule model.TransitionRule) error {
	_, err := r.coll.UpdateOne(ctx, ruleKey(rule), ruleUpdate(rule), options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save transition rule %s: %w", rule.FromState(), err)
	}
	return nil
}

// SaveAll upserts rules in one ordered bulk write.
func (r *RuleRepo) SaveAll(ctx context.Context, rules []model.TransitionRule) error {
	if len(rules) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(rules))
	for _, rule := range rules {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(ruleKey(rule)).
			SetUpdate(ruleUpdate(rule)).
			SetUpsert(true))
	}
	if _, err := r.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("save transition rules: %w", err)
	}
	return nil
}

func ruleKey(rule model.TransitionRule) bson.D {
	return bson.D{{Key: "fromState", Value: rule.FromState().String()}}
}

func ruleUpdate(rule model.TransitionRule) bson.D {
	return bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "toState", Value: rule.ToState().String()},
			{Key: "daysToTransition", Value: rule.Days()},
			{Key: "updatedAt", Value: rule.UpdatedAt()},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "_id", Value: rule.ID()},
			{Key: "createdAt", Value: rule.CreatedAt()},
		}},
	}
}

func (d ruleDocument) toModel() (model.TransitionRule, error) {
	from, err := valueobject.NewCaseState(d.FromState)
	if err != nil {
		return model.TransitionRule{}, fmt.Errorf("parse from state: %w", err)
	}
	to, err := valueobject.NewCaseState(d.ToState)
	if err != nil {
		return model.TransitionRule{}, fmt.Errorf("parse to state: %w", err)
	}
	return model.ReconstructTransitionRule(d.ID, from, to, d.DaysToTransition, d.CreatedAt.UTC(), d.UpdatedAt.UTC()), nil
}
