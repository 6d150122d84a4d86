package dto

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ridersclub/backend/internal/model"
	"ridersclub/backend/internal/service"
)

func TestMediaURL(t *testing.T) {
	m := NewMedia("https://cdn.example.com/", "")

	assert.Equal(t, "", m.URL(""))
	assert.Equal(t, "https://cdn.example.com/media/riders/a.jpg", m.URL("riders/a.jpg"))
	assert.Equal(t, "https://cdn.example.com/media/riders/a.jpg", m.URL("/riders/a.jpg"))
	assert.Equal(t, "http://elsewhere.org/x.png", m.URL("http://elsewhere.org/x.png"))
}

func TestMediaForRequestUsesHost(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/riders", nil)
	req.Host = "club.local:8000"

	m := NewMedia("", "/uploads/").ForRequest(req)
	assert.Equal(t, "http://club.local:8000/uploads/p.jpg", m.URL("p.jpg"))

	req.Header.Set("X-Forwarded-Proto", "https")
	m = NewMedia("", "").ForRequest(req)
	assert.Equal(t, "https://club.local:8000/media/p.jpg", m.URL("p.jpg"))

	configured := NewMedia("https://cdn.example.com", "").ForRequest(req)
	assert.Equal(t, "https://cdn.example.com/media/p.jpg", configured.URL("p.jpg"))
}

func TestProfilePrefersApplicationData(t *testing.T) {
	zone := model.Zone{ID: 4, Name: "Dhaka North"}
	p := &service.Profile{
		User: &model.User{ID: 1, Username: "01712345678", FirstName: "Rahim", LastName: "Uddin"},
		Rider: &model.Rider{
			ID: 9, BikeModel: "Old Bike", Location: "Mirpur",
			MembershipStatus: model.MembershipStatusApproved, Zone: &zone,
		},
		Application: &model.MembershipApplication{
			ID: 3, BloodGroup: "B+", HasMotorbike: true,
			MotorcycleBrand: "Yamaha", MotorcycleModel: "FZ-S",
			Address: "House 1, Road 2", DateOfBirth: time.Date(1995, 5, 17, 0, 0, 0, 0, time.UTC),
			Status: model.ApplicationStatusApproved,
		},
	}

	out := NewProfile(p, NewMedia("", ""))
	assert.Equal(t, "Rahim Uddin", out.FullName)
	assert.Equal(t, "approved", out.MembershipStatus)
	assert.Equal(t, "Yamaha FZ-S", out.BikeInfo)
	assert.Equal(t, "House 1, Road 2", out.Address)
	assert.Equal(t, "B+", out.BloodGroup)
	if assert.NotNil(t, out.DateOfBirth) {
		assert.Equal(t, "1995-05-17", *out.DateOfBirth)
	}
	if assert.NotNil(t, out.Zone) {
		assert.Equal(t, "Dhaka North", out.Zone.Name)
	}
}

func TestProfileFallsBackToRider(t *testing.T) {
	p := &service.Profile{
		User:  &model.User{ID: 1, Username: "+8801712345678"},
		Rider: &model.Rider{ID: 9, BikeModel: "Honda CB", Location: "Uttara", MembershipStatus: model.MembershipStatusPending},
	}

	out := NewProfile(p, NewMedia("", ""))
	assert.Equal(t, "+8801712345678", out.FullName)
	assert.Equal(t, "Honda CB", out.BikeInfo)
	assert.Equal(t, "Uttara", out.Address)
	assert.Nil(t, out.Zone)
	assert.Nil(t, out.DateOfBirth)
}
