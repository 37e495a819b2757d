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

// MongoApprovalLogRepo implements ApprovalLogRepository using MongoDB.
type MongoApprovalLogRepo struct {
	logColl *mongo.Collection
}

func NewMongoApprovalLogRepo() *MongoApprovalLogRepo {
	return &MongoApprovalLogRepo{logColl: database.DB().Collection("approval_logs")}
}

func (repo *MongoApprovalLogRepo) Create(ctx context.Context, entry *models.ApprovalLog) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.logColl.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("error creating approval log: %w", err)
	}
	return nil
}

func (repo *MongoApprovalLogRepo) FindByBooking(ctx context.Context, bookingID string) ([]models.ApprovalLog, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := repo.logColl.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying approval logs: %w", err)
	}
	defer cur.Close(ctx)

	var entries []models.ApprovalLog
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding approval logs: %w", err)
	}
	return entries, nil
}

// MongoBookingHistoryRepo implements BookingHistoryRepository using MongoDB.
type MongoBookingHistoryRepo struct {
	historyColl *mongo.Collection
}

func NewMongoBookingHistoryRepo() *MongoBookingHistoryRepo {
	return &MongoBookingHistoryRepo{historyColl: database.DB().Collection("booking_history")}
}

func (repo *MongoBookingHistoryRepo) Create(ctx context.Context, entry *models.BookingHistory) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.historyColl.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("error creating booking history entry: %w", err)
	}
	return nil
}

func (repo *MongoBookingHistoryRepo) FindByBooking(ctx context.Context, bookingID string) ([]models.BookingHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "changed_at", Value: -1}})
	cur, err := repo.historyColl.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying booking history: %w", err)
	}
	defer cur.Close(ctx)

	var entries []models.BookingHistory
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding booking history: %w", err)
	}
	return entries, nil
}
