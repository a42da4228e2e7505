// Package seed fills a database with fake users, groups, posts, comments
// and follows for local development.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/utils"

	"github.com/brianvoe/gofakeit/v6"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// Options controls how much data Run creates.
type Options struct {
	Users           int
	Groups          int
	Posts           int
	CommentsPerPost int
	FollowsPerUser  int
	MaxDays         int
}

// DefaultOptions is a small but browsable data set.
func DefaultOptions() Options {
	return Options{Users: 10, Groups: 3, Posts: 60, CommentsPerPost: 2, FollowsPerUser: 3, MaxDays: 90}
}

// Summary reports what Run created.
type Summary struct {
	Users    int
	Groups   int
	Posts    int
	Comments int
	Follows  int
}

// Seeder creates fake content. The same seed gives the same data.
type Seeder struct {
	db      *gorm.DB
	faker   *gofakeit.Faker
	follows repository.FollowRepository
	now     time.Time
}

func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	return &Seeder{
		db:      db,
		faker:   gofakeit.New(seed),
		follows: repository.NewFollowRepository(db),
		now:     time.Now(),
	}
}

// ClearAll removes every seeded table's rows, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	for _, model := range []interface{}{&models.Follow{}, &models.Comment{}, &models.Post{}, &models.Group{}, &models.User{}} {
		if err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run creates the data described by opts.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary
	tx := s.db.WithContext(ctx)

	hash, err := utils.HashPassword(DefaultPassword)
	if err != nil {
		return sum, err
	}

	users := make([]models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		users = append(users, models.User{
			Username:  fmt.Sprintf("%s%d", strings.ToLower(s.faker.Username()), i),
			Email:     s.faker.Email(),
			FirstName: s.faker.FirstName(),
			LastName:  s.faker.LastName(),
			Password:  hash,
		})
	}
	if len(users) > 0 {
		if err := tx.Create(&users).Error; err != nil {
			return sum, fmt.Errorf("seed users: %w", err)
		}
	}
	sum.Users = len(users)

	groups := make([]models.Group, 0, opts.Groups)
	for i := 0; i < opts.Groups; i++ {
		word := strings.ToLower(s.faker.Word())
		groups = append(groups, models.Group{
			Title:       strings.ToUpper(word[:1]) + word[1:],
			Slug:        fmt.Sprintf("%s-%d", word, i),
			Description: s.faker.Sentence(12),
		})
	}
	if len(groups) > 0 {
		if err := tx.Create(&groups).Error; err != nil {
			return sum, fmt.Errorf("seed groups: %w", err)
		}
	}
	sum.Groups = len(groups)

	if len(users) == 0 {
		return sum, nil
	}

	maxDays := opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}

	for i := 0; i < opts.Posts; i++ {
		author := users[s.faker.Number(0, len(users)-1)]
		post := models.Post{
			Text:      s.faker.Paragraph(1, 3, 12, "\n"),
			AuthorID:  author.ID,
			CreatedAt: s.now.Add(-time.Duration(s.faker.Number(0, maxDays*24*60)) * time.Minute),
		}
		// Roughly a third of posts have no group.
		if len(groups) > 0 && s.faker.Number(0, 2) > 0 {
			post.GroupID = &groups[s.faker.Number(0, len(groups)-1)].ID
		}
		if err := tx.Omit("Author", "Group").Create(&post).Error; err != nil {
			return sum, fmt.Errorf("seed post: %w", err)
		}
		sum.Posts++

		for j := 0; j < opts.CommentsPerPost; j++ {
			commenter := users[s.faker.Number(0, len(users)-1)]
			comment := models.Comment{
				PostID:    post.ID,
				AuthorID:  commenter.ID,
				Text:      s.faker.Sentence(8),
				CreatedAt: post.CreatedAt.Add(time.Duration(j+1) * time.Hour),
			}
			if err := tx.Omit("Author", "Post").Create(&comment).Error; err != nil {
				return sum, fmt.Errorf("seed comment: %w", err)
			}
			sum.Comments++
		}
	}

	for _, follower := range users {
		for j := 0; j < opts.FollowsPerUser; j++ {
			target := users[s.faker.Number(0, len(users)-1)]
			if target.ID == follower.ID {
				continue
			}
			created, err := s.follows.Create(ctx, follower.ID, target.ID)
			if err != nil {
				return sum, fmt.Errorf("seed follow: %w", err)
			}
			if created {
				sum.Follows++
			}
		}
	}

	log.WithFields(log.Fields{
		"users":    sum.Users,
		"groups":   sum.Groups,
		"posts":    sum.Posts,
		"comments": sum.Comments,
		"follows":  sum.Follows,
	}).Info("seeding finished")
	return sum, nil
}
