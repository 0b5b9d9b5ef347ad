package dto

// CreateAchievementRequest is the JSON body of POST /students/{id}/achievements.
type CreateAchievementRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
}

// AchievementResponse is the wire form of an achievement.
type AchievementResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}
