package repository

import (
	"context"
	"time"

	"github.com/alimikegami/point-of-sales/order-placement-service/internal/domain"
	"github.com/alimikegami/point-of-sales/order-placement-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoDBProduct struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Quantity  int64              `bson:"quantity"`
	Price     float64            `bson:"price"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (p mongoDBProduct) toDomain() domain.Product {
	return domain.Product{
		ID:        p.ID.Hex(),
		Name:      p.Name,
		Price:     decimal.NewFromFloat(p.Price),
		Quantity:  p.Quantity,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type MongoDBProductRepositoryImpl struct {
	db *mongo.Database
}

func CreateMongoDBProductRepository(db *mongo.Database) ProductRepository {
	return &MongoDBProductRepositoryImpl{db: db}
}

// FindAllByID reports each product under the id string the caller used.
// ObjectIDFromHex accepts either hex case while Hex() is lowercase only.
func (r *MongoDBProductRepositoryImpl) FindAllByID(ctx context.Context, ids []string) (data []domain.Product, err error) {
	requested := make(map[primitive.ObjectID]string, len(ids))
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			log.Ctx(ctx).Warn().Str("component", "MongoFindAllByID").Str("product_id", id).Msg("invalid product id")
			continue
		}

		if _, ok := requested[objectID]; ok {
			// same product spelled twice, leave it to the caller's count check
			continue
		}
		requested[objectID] = id
		objectIDs = append(objectIDs, objectID)
	}

	if len(objectIDs) == 0 {
		return nil, nil
	}

	filter := bson.M{"_id": bson.M{"$in": objectIDs}}

	cursor, err := r.db.Collection("products").Find(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "MongoFindAllByID").Msg("")
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []mongoDBProduct
	if err = cursor.All(ctx, &docs); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "MongoFindAllByID").Msg("")
		return nil, err
	}

	data = make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		product := doc.toDomain()
		if id, ok := requested[doc.ID]; ok {
			product.ID = id
		}
		data = append(data, product)
	}

	return data, nil
}

func (r *MongoDBProductRepositoryImpl) UpdateQuantities(ctx context.Context, data []domain.ProductQuantity) (err error) {
	timestamp := time.Now().UnixMilli()

	return r.handleTrx(ctx, func(sessionCtx mongo.SessionContext) error {
		for _, item := range data {
			productID, err := primitive.ObjectIDFromHex(item.ID)
			if err != nil {
				return errs.ErrInvalidProduct
			}

			filter := bson.D{{Key: "_id", Value: productID}, {Key: "quantity", Value: item.PreviousQuantity}}
			update := bson.D{{Key: "$set", Value: bson.D{{Key: "quantity", Value: item.Quantity}, {Key: "updated_at", Value: timestamp}}}}

			result, err := r.db.Collection("products").UpdateOne(sessionCtx, filter, update)
			if err != nil {
				log.Ctx(ctx).Error().Err(err).Str("component", "MongoUpdateQuantities").Msg("Failed to update product")
				return err
			}

			if result.MatchedCount == 0 {
				log.Ctx(ctx).Warn().Str("component", "MongoUpdateQuantities").Str("product_id", item.ID).Msg("stock changed since validation")
				return errs.ErrStockConflict
			}
		}

		return nil
	})
}

func (r *MongoDBProductRepositoryImpl) handleTrx(ctx context.Context, fn func(ctx mongo.SessionContext) error) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "HandleTrx").Msg("")
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessionCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessionCtx)
	})

	return err
}
