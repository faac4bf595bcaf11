package utils

import (
	"math/rand/v2"

	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

const coverPrefix = "/covers"

// RandomInterviewCover picks one of the shipped company covers.
func RandomInterviewCover() string {
	return coverPrefix + models.InterviewCovers[rand.IntN(len(models.InterviewCovers))]
}
