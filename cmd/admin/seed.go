package main

import (
	"errors"

	"yatube/internal/seed"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo users, groups, posts, comments and follows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		if cfg.IsProduction() {
			return errors.New("refusing to seed a production database")
		}

		opts := seed.DefaultOptions
		flags := cmd.Flags()
		opts.Users, _ = flags.GetInt("users")
		opts.Groups, _ = flags.GetInt("groups")
		opts.PostsPerUser, _ = flags.GetInt("posts")
		opts.CommentsPerPost, _ = flags.GetInt("comments")
		opts.FollowsPerUser, _ = flags.GetInt("follows")
		opts.RandSeed, _ = flags.GetInt64("rand-seed")

		if builtIns, _ := flags.GetBool("built-in-groups"); builtIns {
			if err := seed.Groups(db.WithContext(cmd.Context())); err != nil {
				return err
			}
		}

		sum, err := seed.Seed(cmd.Context(), db, opts)
		if err != nil {
			return err
		}
		success("Seeded %d users, %d groups, %d posts, %d comments, %d follows (password %q)",
			sum.Users, sum.Groups, sum.Posts, sum.Comments, sum.Follows, seed.DefaultPassword)
		return nil
	},
}

func init() {
	d := seed.DefaultOptions
	seedCmd.Flags().Int("users", d.Users, "number of users")
	seedCmd.Flags().Int("groups", d.Groups, "number of random groups")
	seedCmd.Flags().Int("posts", d.PostsPerUser, "posts per user")
	seedCmd.Flags().Int("comments", d.CommentsPerPost, "comments per post")
	seedCmd.Flags().Int("follows", d.FollowsPerUser, "follow attempts per user")
	seedCmd.Flags().Int64("rand-seed", 0, "seed for reproducible content (0 = random)")
	seedCmd.Flags().Bool("built-in-groups", true, "also create the built-in groups")
	RootCmd.AddCommand(seedCmd)
}
