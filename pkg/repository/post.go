package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

// PostRepository handles post-related database operations
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository creates a post repository
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// postSQL represents a post for SQL operations
type postSQL struct {
	ID            int64     `db:"id"`
	Keyword       string    `db:"keyword"`
	Title         string    `db:"title"`
	Slug          string    `db:"slug"`
	Content       string    `db:"content"`
	CategoryID    int64     `db:"category_id"`
	Category      string    `db:"category"`
	Model         string    `db:"model"`
	InputTokens   int       `db:"input_tokens"`
	OutputTokens  int       `db:"output_tokens"`
	QualityScore  int       `db:"quality_score"`
	QualityPassed bool      `db:"quality_passed"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r *PostRepository) toDomainPost(p *postSQL) *domain.GeneratedPost {
	return &domain.GeneratedPost{
		ID:            p.ID,
		Keyword:       p.Keyword,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		CategoryID:    p.CategoryID,
		Category:      p.Category,
		Model:         p.Model,
		InputTokens:   p.InputTokens,
		OutputTokens:  p.OutputTokens,
		QualityScore:  p.QualityScore,
		QualityPassed: p.QualityPassed,
		CreatedAt:     p.CreatedAt,
	}
}

// slug collisions get a numeric suffix before giving up
const maxSlugAttempts = 5

// CreatePost inserts a post and sets its ID. The slug is kept unique by
// appending a numeric suffix when an identical one already exists.
func (r *PostRepository) CreatePost(ctx context.Context, post *domain.GeneratedPost) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			INSERT INTO posts (keyword, title, slug, content, category_id, model,
			                   input_tokens, output_tokens, quality_score, quality_passed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`

		slug := post.Slug
		for attempt := 1; ; attempt++ {
			res, err := r.db.ExecContext(ctx, query, post.Keyword, post.Title, slug, post.Content,
				post.CategoryID, post.Model, post.InputTokens, post.OutputTokens,
				post.QualityScore, post.QualityPassed)
			if err == nil {
				id, idErr := res.LastInsertId()
				if idErr != nil {
					return &criticalError{err: fmt.Errorf("get post id: %w", idErr)}
				}
				post.ID = id
				post.Slug = slug
				return nil
			}
			if isLockError(err) {
				return err // retry
			}
			if isSlugConflict(err) && attempt < maxSlugAttempts {
				slug = fmt.Sprintf("%s-%d", post.Slug, attempt+1)
				continue
			}
			return &criticalError{err: fmt.Errorf("insert post: %w", err)}
		}
	})
}

// isSlugConflict checks for a unique-constraint violation on the slug column
func isSlugConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: posts.slug")
}

// GetPost returns one post by id
func (r *PostRepository) GetPost(ctx context.Context, id int64) (*domain.GeneratedPost, error) {
	query := `
		SELECT p.*, c.name AS category
		FROM posts p JOIN categories c ON c.id = p.category_id
		WHERE p.id = ?
	`
	var p postSQL
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return r.toDomainPost(&p), nil
}

// FindExistingKeywords returns keywords and titles of recent posts, newest
// first, for duplicate-topic detection
func (r *PostRepository) FindExistingKeywords(ctx context.Context, limit int) ([]string, error) {
	query := `
		SELECT keyword, title FROM posts
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	var rows []struct {
		Keyword string `db:"keyword"`
		Title   string `db:"title"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("find existing keywords: %w", err)
	}

	seen := make(map[string]struct{}, len(rows)*2)
	result := make([]string, 0, len(rows)*2)
	for _, row := range rows {
		for _, s := range []string{row.Keyword, row.Title} {
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			result = append(result, s)
		}
	}
	return result, nil
}

// ListRecentPosts returns the most recent posts, newest first
func (r *PostRepository) ListRecentPosts(ctx context.Context, limit int) ([]*domain.GeneratedPost, error) {
	query := `
		SELECT p.*, c.name AS category
		FROM posts p JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT ?
	`
	var sqlPosts []postSQL
	if err := r.db.SelectContext(ctx, &sqlPosts, query, limit); err != nil {
		return nil, fmt.Errorf("list recent posts: %w", err)
	}

	posts := make([]*domain.GeneratedPost, len(sqlPosts))
	for i := range sqlPosts {
		posts[i] = r.toDomainPost(&sqlPosts[i])
	}
	return posts, nil
}
