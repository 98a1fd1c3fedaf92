package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeRating_NoReviews(t *testing.T) {
	rating := ComputeRating(nil)
	assert.Equal(t, Rating{Average: 0, Total: 0}, rating)

	rating = ComputeRating([]*Review{})
	assert.Equal(t, Rating{Average: 0, Total: 0}, rating)
}

func TestComputeRating_SingleReview(t *testing.T) {
	rating := ComputeRating([]*Review{{Rating: 5}})
	assert.Equal(t, Rating{Average: 5.0, Total: 1}, rating)
}

func TestComputeRating_RoundsToOneDecimal(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int8
		want    Rating
	}{
		{"two reviews", []int8{5, 3}, Rating{Average: 4.0, Total: 2}},
		{"rounds half up", []int8{1, 2}, Rating{Average: 1.5, Total: 2}},
		{"repeating decimal", []int8{1, 2, 2}, Rating{Average: 1.7, Total: 3}},
		{"one third", []int8{1, 1, 2}, Rating{Average: 1.3, Total: 3}},
		{"all fives", []int8{5, 5, 5, 5}, Rating{Average: 5.0, Total: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := make([]*Review, 0, len(tt.ratings))
			for _, r := range tt.ratings {
				reviews = append(reviews, &Review{Rating: r})
			}
			assert.Equal(t, tt.want, ComputeRating(reviews))
		})
	}
}

func TestComputeRating_Idempotent(t *testing.T) {
	reviews := []*Review{{Rating: 4}, {Rating: 2}, {Rating: 5}}
	first := ComputeRating(reviews)
	second := ComputeRating(reviews)
	assert.Equal(t, first, second)
}
