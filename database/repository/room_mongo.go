package repository

import (
	"context"
	"fmt"
	"time"

	"roomdesk/database"
	"roomdesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRoomRepo implements RoomRepository using MongoDB.
type MongoRoomRepo struct {
	roomColl *mongo.Collection
}

func NewMongoRoomRepo() *MongoRoomRepo {
	return &MongoRoomRepo{roomColl: database.DB().Collection("rooms")}
}

func (repo *MongoRoomRepo) GetByID(ctx context.Context, id string) (*models.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var room models.Room
	err := repo.roomColl.FindOne(ctx, bson.M{"id": id}).Decode(&room)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("room %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching room %s: %w", id, err)
	}
	return &room, nil
}

func (repo *MongoRoomRepo) FindAll(ctx context.Context) ([]models.Room, error) {
	return repo.find(ctx, bson.M{})
}

func (repo *MongoRoomRepo) FindByMinCapacity(ctx context.Context, minCapacity int) ([]models.Room, error) {
	return repo.find(ctx, bson.M{"capacity": bson.M{"$gte": minCapacity}})
}

func (repo *MongoRoomRepo) find(ctx context.Context, filter bson.M) ([]models.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := repo.roomColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error querying rooms: %w", err)
	}
	defer cur.Close(ctx)

	var rooms []models.Room
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("error decoding rooms: %w", err)
	}
	return rooms, nil
}
