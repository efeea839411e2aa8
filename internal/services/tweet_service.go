package services

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/brazzinioc/twitter-api/internal/models"
	"github.com/brazzinioc/twitter-api/internal/storage"
)

const (
	minContentLength = 1
	maxContentLength = 280
)

// TweetServiceProvider defines the interface for tweet services.
type TweetServiceProvider interface {
	CreateTweet(content, authorID string) (models.Tweet, error)
	GetTweetByID(id string) (models.Tweet, error)
	ListTweets() ([]models.Tweet, error)
	UpdateTweet(id, content, actorID string) (models.Tweet, error)
	DeleteTweet(id, actorID string) (models.Tweet, error)
}

// TweetService provides business logic for tweet management on top of the
// tweets collection.
type TweetService struct {
	tweets *storage.Collection[models.Tweet]
	users  UserServiceProvider
	events EventServiceProvider
}

// NewTweetService creates a new TweetService.
func NewTweetService(store *storage.Store, users UserServiceProvider, events EventServiceProvider) *TweetService {
	return &TweetService{
		tweets: storage.NewCollection[models.Tweet](store, "tweets"),
		users:  users,
		events: events,
	}
}

// CreateTweet publishes a new tweet. The author must be a live user at
// creation time; the relationship is not re-validated afterwards, so a tweet
// outlives its author's later deletion.
func (s *TweetService) CreateTweet(content, authorID string) (models.Tweet, error) {
	if _, err := s.users.GetUserByID(authorID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Tweet{}, fmt.Errorf("author %s is not an active user: %w", authorID, ErrUnauthorized)
		}
		return models.Tweet{}, err
	}
	if err := validateContent(content); err != nil {
		return models.Tweet{}, err
	}

	tweet := models.Tweet{
		ID:        uuid.New().String(),
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tweets.Append(tweet); err != nil {
		return models.Tweet{}, err
	}

	s.recordEvent("tweet.created", "New tweet published", tweet.ID)
	return tweet, nil
}

// GetTweetByID retrieves a tweet by its ID. Reads are not author-restricted
// and return soft-deleted tweets too; only a missing id is an error.
func (s *TweetService) GetTweetByID(id string) (models.Tweet, error) {
	tweet, found, err := s.tweets.Find(func(t models.Tweet) bool {
		return t.ID == id
	})
	if err != nil {
		return models.Tweet{}, err
	}
	if !found {
		return models.Tweet{}, fmt.Errorf("tweet %s: %w", id, ErrNotFound)
	}
	return tweet, nil
}

// ListTweets returns all live tweets in stored order.
func (s *TweetService) ListTweets() ([]models.Tweet, error) {
	return s.tweets.Filter(models.Tweet.Active)
}

// UpdateTweet replaces the content of a live tweet. Only the author may
// update it; for any other actor the tweet behaves as if it did not exist.
func (s *TweetService) UpdateTweet(id, content, actorID string) (models.Tweet, error) {
	if err := validateContent(content); err != nil {
		return models.Tweet{}, err
	}

	var updated models.Tweet
	err := s.tweets.Mutate(func(tweets []models.Tweet) ([]models.Tweet, error) {
		for i, t := range tweets {
			if t.ID == id && t.Active() && t.AuthorID == actorID {
				now := time.Now().UTC()
				tweets[i].Content = content
				tweets[i].UpdatedAt = &now
				updated = tweets[i]
				return tweets, nil
			}
		}
		return nil, fmt.Errorf("tweet %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return models.Tweet{}, err
	}

	s.recordEvent("tweet.updated", "Tweet updated", updated.ID)
	return updated, nil
}

// DeleteTweet soft-deletes a live tweet under the same authorization rule as
// UpdateTweet. A second delete yields ErrNotFound and keeps the original
// deleted_at.
func (s *TweetService) DeleteTweet(id, actorID string) (models.Tweet, error) {
	var deleted models.Tweet
	err := s.tweets.Mutate(func(tweets []models.Tweet) ([]models.Tweet, error) {
		for i, t := range tweets {
			if t.ID == id && t.Active() && t.AuthorID == actorID {
				now := time.Now().UTC()
				tweets[i].DeletedAt = &now
				deleted = tweets[i]
				return tweets, nil
			}
		}
		return nil, fmt.Errorf("tweet %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return models.Tweet{}, err
	}

	s.recordEvent("tweet.deleted", "Tweet deleted", deleted.ID)
	return deleted, nil
}

func (s *TweetService) recordEvent(eventType, message, subjectID string) {
	if s.events != nil {
		s.events.CreateEvent(eventType, "info", message, &subjectID)
	}
}

func validateContent(content string) error {
	n := utf8.RuneCountInString(content)
	if n < minContentLength || n > maxContentLength {
		return validationErrorf("content must be between %d and %d characters", minContentLength, maxContentLength)
	}
	return nil
}
