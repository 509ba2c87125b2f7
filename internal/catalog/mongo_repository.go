package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Zombie-01/tire/internal/domain"
)

type mongoRepository struct {
	products *mongo.Collection
	brands   *mongo.Collection
	banners  *mongo.Collection
	users    *mongo.Collection
	settings *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		products: db.Collection("products"),
		brands:   db.Collection("brands"),
		banners:  db.Collection("banners"),
		users:    db.Collection("users"),
		settings: db.Collection("settings"),
	}
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

func (m *mongoRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	cursor, err := m.products.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (m *mongoRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := m.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

func (m *mongoRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now()

	if _, err := m.products.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (m *mongoRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"brand_id":    p.BrandID,
		"size":        p.Size,
		"price":       p.Price,
		"condition":   p.Condition,
		"description": p.Description,
		"image":       p.Image,
		"popularity":  p.Popularity,
		"stock":       p.Stock,
		"is_active":   p.IsActive,
	}}

	result, err := m.products.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoRepository) DeleteProduct(ctx context.Context, id string) error {
	return deleteByID(ctx, m.products, id, "product")
}

func (m *mongoRepository) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	cursor, err := m.brands.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer cursor.Close(ctx)

	var brands []domain.Brand
	if err := cursor.All(ctx, &brands); err != nil {
		return nil, fmt.Errorf("failed to decode brands: %w", err)
	}
	return brands, nil
}

func (m *mongoRepository) CreateBrand(ctx context.Context, b *domain.Brand) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = time.Now()

	if _, err := m.brands.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}
	return nil
}

func (m *mongoRepository) UpdateBrand(ctx context.Context, b *domain.Brand) error {
	update := bson.M{"$set": bson.M{
		"name":        b.Name,
		"logo":        b.Logo,
		"description": b.Description,
		"is_active":   b.IsActive,
	}}

	result, err := m.brands.UpdateOne(ctx, bson.M{"_id": b.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update brand: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoRepository) DeleteBrand(ctx context.Context, id string) error {
	return deleteByID(ctx, m.brands, id, "brand")
}

func (m *mongoRepository) ListBanners(ctx context.Context) ([]domain.Banner, error) {
	cursor, err := m.banners.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	defer cursor.Close(ctx)

	var banners []domain.Banner
	if err := cursor.All(ctx, &banners); err != nil {
		return nil, fmt.Errorf("failed to decode banners: %w", err)
	}
	return banners, nil
}

func (m *mongoRepository) CreateBanner(ctx context.Context, b *domain.Banner) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = time.Now()

	if _, err := m.banners.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("failed to create banner: %w", err)
	}
	return nil
}

func (m *mongoRepository) UpdateBanner(ctx context.Context, b *domain.Banner) error {
	update := bson.M{"$set": bson.M{
		"title":     b.Title,
		"subtitle":  b.Subtitle,
		"image":     b.Image,
		"cta":       b.CTA,
		"is_active": b.IsActive,
		"order":     b.Order,
	}}

	result, err := m.banners.UpdateOne(ctx, bson.M{"_id": b.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update banner: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoRepository) DeleteBanner(ctx context.Context, id string) error {
	return deleteByID(ctx, m.banners, id, "banner")
}

func (m *mongoRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	cursor, err := m.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (m *mongoRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := m.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (m *mongoRepository) CreateUser(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now()

	if _, err := m.users.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (m *mongoRepository) UpdateUser(ctx context.Context, u *domain.User) error {
	update := bson.M{"$set": bson.M{
		"name":   u.Name,
		"email":  u.Email,
		"phone":  u.Phone,
		"role":   u.Role,
		"status": u.Status,
	}}

	result, err := m.users.UpdateOne(ctx, bson.M{"_id": u.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoRepository) DeleteUser(ctx context.Context, id string) error {
	return deleteByID(ctx, m.users, id, "user")
}

func (m *mongoRepository) ListSettings(ctx context.Context) ([]domain.Setting, error) {
	cursor, err := m.settings.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer cursor.Close(ctx)

	var settings []domain.Setting
	if err := cursor.All(ctx, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, nil
}

func (m *mongoRepository) UpdateSetting(ctx context.Context, s *domain.Setting) error {
	update := bson.M{"$set": bson.M{
		"key":         s.Key,
		"value":       s.Value,
		"description": s.Description,
		"updated_at":  time.Now(),
	}}
	opts := options.Update().SetUpsert(true)

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if _, err := m.settings.UpdateOne(ctx, bson.M{"_id": s.ID}, update, opts); err != nil {
		return fmt.Errorf("failed to update setting: %w", err)
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id, kind string) error {
	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
