package site

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

const (
	testEmail    = "player@example.com"
	testPassword = "hunter2"
	testToken    = "tok-123"
	sessionValue = "authenticated"
)

const loginPage = `<!DOCTYPE html>
<html><body>
<form action="/enterprise/account/login" method="post">
  <input name="__RequestVerificationToken" type="hidden" value="` + testToken + `" />
  <input name="Email" type="email" />
  <input name="Password" type="password" />
</form>
</body></html>`

// fakeSite emulates the vendor endpoints the client talks to.
type fakeSite struct {
	*httptest.Server

	mu   sync.Mutex
	hits map[string]int

	omitToken     bool
	reserveStatus int
	confirmStatus int
	keepAlive     int
	lastQuery     map[string]string
	lastBody      string
}

func newFakeSite(t *testing.T) *fakeSite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fakeSite{
		hits:          map[string]int{},
		reserveStatus: http.StatusOK,
		confirmStatus: http.StatusOK,
		keepAlive:     http.StatusOK,
		lastQuery:     map[string]string{},
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		f.mu.Lock()
		f.hits[c.Request.Method+" "+c.Request.URL.Path]++
		f.mu.Unlock()
		c.Next()
	})

	r.GET("/enterprise/account/login", func(c *gin.Context) {
		if f.omitToken {
			c.Data(http.StatusOK, "text/html", []byte("<html><body>maintenance</body></html>"))
			return
		}
		c.Data(http.StatusOK, "text/html", []byte(loginPage))
	})
	r.POST("/enterprise/account/login", func(c *gin.Context) {
		if c.PostForm("__RequestVerificationToken") != testToken ||
			c.PostForm("Email") != testEmail ||
			c.PostForm("Password") != testPassword {
			c.Data(http.StatusOK, "text/html", []byte(loginPage))
			return
		}
		c.SetCookie("session", sessionValue, 3600, "/", "", false, true)
		c.Redirect(http.StatusFound, "/enterprise/home")
	})
	r.GET("/enterprise/home", func(c *gin.Context) {
		c.String(http.StatusOK, "welcome")
	})

	api := r.Group("/enterprise", requireSession)
	api.GET("/filteredlocationhierarchy", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{
			"Id":   1,
			"Name": "Liverpool",
			"Children": []gin.H{
				{"Id": 144, "Name": "Park Road", "Children": []gin.H{}},
				{"Id": 3, "Name": "Garston", "Children": []gin.H{}},
			},
		}})
	})
	api.GET("/FacilityLocation", func(c *gin.Context) {
		switch c.Query("request") {
		case "144":
			c.JSON(http.StatusOK, []int{9144})
		case "3":
			c.JSON(http.StatusOK, []int{903})
		default:
			c.JSON(http.StatusOK, []int{})
		}
	})
	api.GET("/Bookings/ActivitySubTypeCategories", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"ResourceSubTypeCategoryId": 7, "Name": "Racquet Sports"}})
	})
	api.GET("/Bookings/ActivitySubTypes", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{
			{"ResourceSubTypeId": 254, "Name": "Badminton 60min"},
			{"ResourceSubTypeId": 300, "Name": "Squash"},
		})
	})
	api.GET("/BookingsCentre/SportsHallTimeTable", func(c *gin.Context) {
		f.record(c)
		c.JSON(http.StatusOK, gin.H{
			"SportsHallActivitySnapshots": []gin.H{{
				"SportsHallTimetableRows": []gin.H{
					{
						"ActivityId": 254, "ActivityName": "Badminton 60min",
						"FacilityId": 9144, "FacilityName": "Park Road Sports Hall",
						"ProductId": 55, "SlotId": 1001,
						"StartTime": "2026-10-23T19:00:00", "Duration": 60,
						"AvailableSlots": 2, "ResourceLocationSelectionEnabled": true,
					},
					{
						"ActivityId": 254, "ActivityName": "Badminton 60min",
						"FacilityId": 9144, "FacilityName": "Park Road Sports Hall",
						"ProductId": 55, "SlotId": 1002,
						"StartTime": "2026-10-23T20:00:00", "Duration": "01:00:00",
						"AvailableSlots": 0, "ResourceLocationSelectionEnabled": false,
					},
				},
			}},
		})
	})
	api.POST("/BookingsCentre/GetResourceLocation", func(c *gin.Context) {
		body, _ := c.GetRawData()
		f.mu.Lock()
		f.lastBody = string(body)
		f.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"ResourceLocations": []gin.H{{"Id": 12, "Name": "Court 3", "AvailableSlots": 1}}})
	})
	api.GET("/BookingsCentre/BookSportsHallSlot", func(c *gin.Context) {
		f.record(c)
		c.String(f.reserveStatus, `{"Success":true}`)
	})
	api.PUT("/universalbasket/updatebasketexpiry", func(c *gin.Context) {
		c.Status(f.keepAlive)
	})
	api.POST("/cart/confirmbasket", func(c *gin.Context) {
		body, _ := c.GetRawData()
		f.mu.Lock()
		f.lastBody = string(body)
		f.mu.Unlock()
		c.String(f.confirmStatus, `{"Confirmed":true}`)
	})

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

func requireSession(c *gin.Context) {
	if v, err := c.Cookie("session"); err != nil || v != sessionValue {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if c.GetHeader("X-Requested-With") != "XMLHttpRequest" {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	c.Next()
}

func (f *fakeSite) record(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = map[string]string{}
	for k, v := range c.Request.URL.Query() {
		f.lastQuery[k] = v[0]
	}
}

func (f *fakeSite) hitCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func (f *fakeSite) totalHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.hits {
		n += v
	}
	return n
}

func (f *fakeSite) client(email, password string) *Client {
	return NewClient(Config{
		BaseURL:   f.URL,
		Email:     email,
		Password:  password,
		UserAgent: "slot-booker-test",
		CacheSize: 16,
	}, nil)
}
