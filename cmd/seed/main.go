// Command seed fills the configured database with fake data.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/logging"
	"yatube/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.Users, "Number of users to create")
	numGroups := flag.Int("groups", defaults.Groups, "Number of groups to create")
	numPosts := flag.Int("posts", defaults.Posts, "Number of posts to create")
	comments := flag.Int("comments", defaults.CommentsPerPost, "Comments per post")
	follows := flag.Int("follows", defaults.FollowsPerUser, "Follow attempts per user")
	shouldClean := flag.Bool("clean", false, "Clean database before seeding")
	randSeed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := logging.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	conn, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(conn, *randSeed)
	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			logger.Fatalf("Cleanup failed: %v", err)
		}
	}

	_, err = s.Run(ctx, seed.Options{
		Users:           *numUsers,
		Groups:          *numGroups,
		Posts:           *numPosts,
		CommentsPerPost: *comments,
		FollowsPerUser:  *follows,
		MaxDays:         defaults.MaxDays,
	})
	if err != nil {
		logger.Fatalf("Seeding failed: %v", err)
	}
	logger.Infof("All seeded users have the password: %s", seed.DefaultPassword)
}
