package repository

import (
	"context"
	"fmt"
	"time"

	"roomdesk/database"
	"roomdesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
	historyColl *mongo.Collection
}

func NewMongoBookingRepo() *MongoBookingRepo {
	db := database.DB()
	return &MongoBookingRepo{
		bookingColl: db.Collection("bookings"),
		historyColl: db.Collection("booking_history"),
	}
}

func (repo *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.bookingColl.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// CreateWithHistory inserts the booking and its initial history entry inside a
// single session transaction so a crash cannot leave a booking without its
// audit trail.
func (repo *MongoBookingRepo) CreateWithHistory(ctx context.Context, booking *models.Booking, history *models.BookingHistory) error {
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
		if _, err := repo.historyColl.InsertOne(sc, history); err != nil {
			return fmt.Errorf("insert history failed: %w", err)
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

func (repo *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := repo.bookingColl.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &booking, nil
}

func (repo *MongoBookingRepo) UpdateStatus(ctx context.Context, id, status string, confidence *float64, rationale string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": status}
	if confidence != nil {
		set["decision_confidence"] = *confidence
	}
	if rationale != "" {
		set["decision_rationale"] = rationale
	}
	res, err := repo.bookingColl.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("error updating booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	return nil
}

func (repo *MongoBookingRepo) UpdateDecision(ctx context.Context, id string, confidence float64, rationale string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"decision_confidence": confidence,
		"decision_rationale":  rationale,
	}}
	if _, err := repo.bookingColl.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("error updating decision for booking %s: %w", id, err)
	}
	return nil
}

func (repo *MongoBookingRepo) FindOverlapping(ctx context.Context, roomID string, start, end time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"room_id":    roomID,
		"status":     bson.M{"$ne": models.StatusCancelled},
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
	}
	return repo.find(ctx, filter, nil)
}

func (repo *MongoBookingRepo) FindByRoom(ctx context.Context, roomID, status string) ([]models.Booking, error) {
	filter := bson.M{"room_id": roomID}
	if status != "" {
		filter["status"] = status
	}
	return repo.find(ctx, filter, nil)
}

func (repo *MongoBookingRepo) FindByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return repo.find(ctx, bson.M{"user_id": userID}, nil)
}

func (repo *MongoBookingRepo) FindPending(ctx context.Context) ([]models.Booking, error) {
	return repo.find(ctx, bson.M{"status": models.StatusPending}, nil)
}

func (repo *MongoBookingRepo) FindByMinPriority(ctx context.Context, minPriority int) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: -1}})
	return repo.find(ctx, bson.M{"priority": bson.M{"$gte": minPriority}}, opts)
}

func (repo *MongoBookingRepo) FindAll(ctx context.Context) ([]models.Booking, error) {
	return repo.find(ctx, bson.M{}, nil)
}

func (repo *MongoBookingRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = repo.bookingColl.Find(ctx, filter, opts)
	} else {
		cur, err = repo.bookingColl.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying bookings: %w", err)
	}
	defer cur.Close(ctx)

	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}
