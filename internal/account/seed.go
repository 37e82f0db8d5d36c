package account

import "time"

// SeedAccount is a demo account with its clear-text password. Only the mock
// service and the in-memory server repository consume these.
type SeedAccount struct {
	Profile  Profile
	Password string
}

// Seeds returns a fresh copy of the demo accounts.
func Seeds() []SeedAccount {
	return []SeedAccount{
		{
			Password: "admin123",
			Profile: Profile{
				ID:       1,
				Email:    "admin@example.com",
				Name:     "Admin User",
				FullName: "Admin User",
				Role:     RoleAdmin,
				Bio:      "Administrator of the dashboard.",
				Phone:    "+1 (555) 010-0001",
				Location: "San Francisco, CA",
				JoinDate: time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			Password: "user123",
			Profile: Profile{
				ID:       2,
				Email:    "user@example.com",
				Name:     "Regular User",
				FullName: "Regular User",
				Role:     RoleUser,
				JoinDate: time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC),
			},
		},
	}
}
