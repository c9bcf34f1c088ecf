package settlement

import (
	"context"
	"errors"

	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/contracts"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/app/models"
	"github.com/Pixeebot-2-0/navikt-fp-sak-sub003/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const settlementStateCollection = "case_settlement_states"

type settlementStateMongoRepository struct {
	DB *mongo.Database
}

func NewSettlementStateMongoRepository(db *mongo.Database) contracts.SettlementStateRepository {
	return &settlementStateMongoRepository{
		DB: db,
	}
}

func (repo *settlementStateMongoRepository) collection() *mongo.Collection {
	return repo.DB.Collection(settlementStateCollection)
}

func (repo *settlementStateMongoRepository) FindByCaseID(ctx context.Context, caseID string) (*models.CaseSettlementState, error) {
	var state models.CaseSettlementState
	err := repo.collection().FindOne(ctx, bson.M{"_id": caseID}).Decode(&state)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &state, nil
}

func (repo *settlementStateMongoRepository) FindByTransmissionID(ctx context.Context, transmissionID string) (*models.CaseSettlementState, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"outstanding": transmissionID},
			bson.M{"outcomes.transmission_id": transmissionID},
		},
	}
	var state models.CaseSettlementState
	err := repo.collection().FindOne(ctx, filter).Decode(&state)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &state, nil
}

func (repo *settlementStateMongoRepository) Upsert(ctx context.Context, state *models.CaseSettlementState) error {
	opts := options.Replace().SetUpsert(true)
	_, err := repo.collection().ReplaceOne(ctx, bson.M{"_id": state.CaseID}, state, opts)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (repo *settlementStateMongoRepository) Delete(ctx context.Context, caseID string) error {
	_, err := repo.collection().DeleteOne(ctx, bson.M{"_id": caseID})
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
