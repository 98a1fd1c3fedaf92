package dto

// UpdateProfileRequestBody defines the request body for UpdateProfile service.
// The fields are set to a pointer type to allow partial updates based on
// whether the value is set to nil.
type UpdateProfileRequestBody struct {
	DisplayName    *string  `json:"display_name"`
	Bio            *string  `json:"bio"`
	FavoriteGenres []string `json:"favorite_genres"`
}
