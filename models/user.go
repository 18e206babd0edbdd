package models

// User is the client profile surface the booking core needs: identity,
// timezone for schedule rendering, and the FCM token for pushes.
type User struct {
	ID       string `bson:"id" json:"id"`
	FullName string `bson:"fullName" json:"fullName"`
	Timezone string `bson:"timezone,omitempty" json:"timezone,omitempty"`
	FCMToken string `bson:"fcmToken,omitempty" json:"-"`
}
