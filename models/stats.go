package models

// CategoryCount is one entry of the category popularity ranking.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// PlatformStats is the admin dashboard payload. AvgPlatformRating is the
// unweighted mean of per-post mean ratings over posts with at least one
// rating, the same mean-of-means used for author averages.
type PlatformStats struct {
	TotalUsers         int64           `json:"totalUsers"`
	TotalPosts         int64           `json:"totalPosts"`
	AnonymousPosts     int64           `json:"anonymousPosts"`
	CategoryPopularity []CategoryCount `json:"categoryPopularity"`
	AvgPlatformRating  float64         `json:"avgPlatformRating"`
}
