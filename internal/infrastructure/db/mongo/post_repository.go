package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/contentkit/publishing-api/internal/core/domain"
	"github.com/contentkit/publishing-api/internal/core/ports"
)

const collectionPosts = "posts"

type PostRepository struct {
	col   *mongo.Collection
	users *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		col:   db.Collection(collectionPosts),
		users: db.Collection(collectionUsers),
	}
}

type mongoPost struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Content     string             `bson:"content"`
	AuthorID    primitive.ObjectID `bson:"author_id"`
	Status      string             `bson:"status"`
	PublishedAt *time.Time         `bson:"published_at,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (mp *mongoPost) toDomain() *domain.Post {
	return &domain.Post{
		ID:          mp.ID.Hex(),
		Title:       mp.Title,
		Content:     mp.Content,
		AuthorID:    mp.AuthorID.Hex(),
		Status:      domain.PostStatus(mp.Status),
		PublishedAt: mp.PublishedAt,
		CreatedAt:   mp.CreatedAt,
		UpdatedAt:   mp.UpdatedAt,
	}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	authorID, err := primitive.ObjectIDFromHex(post.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("parse author id: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := mongoPost{
		Title:       post.Title,
		Content:     post.Content,
		AuthorID:    authorID,
		Status:      string(post.Status),
		PublishedAt: post.PublishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPost
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return mp.toDomain(), nil
}

// FindByIDWithAuthor returns a post joined with its author's contact fields.
func (r *PostRepository) FindByIDWithAuthor(ctx context.Context, id string) (*domain.PostWithAuthor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPost
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return r.withAuthor(ctx, &mp)
}

// withAuthor joins a post with its author. A deleted author leaves the
// contact fields empty rather than failing the read.
func (r *PostRepository) withAuthor(ctx context.Context, mp *mongoPost) (*domain.PostWithAuthor, error) {
	view := &domain.PostWithAuthor{Post: *mp.toDomain()}

	var mu mongoUser
	err := r.users.FindOne(ctx, bson.M{"_id": mp.AuthorID}).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return view, nil
		}
		return nil, fmt.Errorf("find author: %w", err)
	}

	view.AuthorFirstName = mu.FirstName
	view.AuthorLastName = mu.LastName
	view.AuthorEmail = mu.Email
	return view, nil
}

// List returns a page of posts with authors resolved, plus the total count.
// The author filter matches partial author names or emails.
func (r *PostRepository) List(ctx context.Context, filter ports.ListPostsFilter) ([]*domain.PostWithAuthor, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.AuthorID != "" {
		authorID, err := primitive.ObjectIDFromHex(filter.AuthorID)
		if err != nil {
			return nil, 0, domain.ErrUserNotFound
		}
		query["author_id"] = authorID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Author != "" {
		authorIDs, err := r.matchAuthors(ctx, filter.Author)
		if err != nil {
			return nil, 0, err
		}
		// An AuthorID scope already in place intersects with the name match;
		// it is never widened to the matched authors.
		if scoped, ok := query["author_id"].(primitive.ObjectID); ok {
			authorIDs = intersectAuthor(authorIDs, scoped)
		}
		query["author_id"] = bson.M{"$in": authorIDs}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoPost
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode posts: %w", err)
	}

	posts := make([]*domain.PostWithAuthor, 0, len(docs))
	for i := range docs {
		view, err := r.withAuthor(ctx, &docs[i])
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, view)
	}
	return posts, total, nil
}

// intersectAuthor narrows a matched author set to the scoped author, yielding
// an empty set when the scoped author is not among the matches.
func intersectAuthor(matched []primitive.ObjectID, scoped primitive.ObjectID) []primitive.ObjectID {
	for _, id := range matched {
		if id == scoped {
			return []primitive.ObjectID{scoped}
		}
	}
	return []primitive.ObjectID{}
}

// matchAuthors resolves a partial name or email match to user IDs.
func (r *PostRepository) matchAuthors(ctx context.Context, author string) ([]primitive.ObjectID, error) {
	regex := bson.M{"$regex": author, "$options": "i"}
	cursor, err := r.users.Find(ctx,
		bson.M{"$or": []bson.M{
			{"first_name": regex},
			{"last_name": regex},
			{"email": regex},
		}},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("match authors: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode authors: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// Update replaces the editable fields and returns the updated post.
func (r *PostRepository) Update(ctx context.Context, id string, fields ports.UpdatePostFields) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":      fields.Title,
		"content":    fields.Content,
		"status":     string(fields.Status),
		"updated_at": time.Now().UTC(),
	}}
	if fields.PublishedAt != nil {
		update["$set"].(bson.M)["published_at"] = *fields.PublishedAt
	} else {
		update["$unset"] = bson.M{"published_at": ""}
	}

	return r.findOneAndUpdate(ctx, oid, update)
}

// UpdateStatus changes only the publication state and timestamp.
func (r *PostRepository) UpdateStatus(ctx context.Context, id string, status domain.PostStatus, publishedAt *time.Time) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}}
	if publishedAt != nil {
		update["$set"].(bson.M)["published_at"] = *publishedAt
	} else {
		update["$unset"] = bson.M{"published_at": ""}
	}

	return r.findOneAndUpdate(ctx, oid, update)
}

func (r *PostRepository) findOneAndUpdate(ctx context.Context, oid primitive.ObjectID, update bson.M) (*domain.Post, error) {
	var mp mongoPost
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// EnsureIndexes creates the lookup indexes used by listings.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
