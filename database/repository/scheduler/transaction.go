package schedulerRepo

import (
	"context"
	"fmt"

	"mindwell/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateBookingWithSchedule inserts the booking and its generic schedule row
// atomically. For organization-sourced bookings the remaining quota is
// decremented in the same transaction; the guard on `remaining` makes an
// exhausted quota abort the whole commit.
func (repo *MongoSchedulerRepo) CreateBookingWithSchedule(
	ctx context.Context,
	booking *models.Booking,
	schedule *models.Schedule,
	orgID string,
) error {
	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := repo.bookingColl.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}

		if _, err := repo.scheduleColl.InsertOne(sc, schedule); err != nil {
			return fmt.Errorf("insert schedule failed: %w", err)
		}

		if orgID != "" {
			filter := bson.M{
				"organizationId": orgID,
				"remaining":      bson.M{"$gte": 1},
			}
			update := bson.M{"$inc": bson.M{"remaining": -1}}
			res, err := repo.quotaColl.UpdateOne(sc, filter, update)
			if err != nil {
				return fmt.Errorf("quota decrement failed: %w", err)
			}
			if res.MatchedCount == 0 {
				return fmt.Errorf("organization %s has no remaining session quota", orgID)
			}
		}

		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("booking transaction failed: %w", err)
	}

	return nil
}
