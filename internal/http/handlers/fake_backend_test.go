package handlers_test

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposals-console/internal/api"
	"github.com/ignatzorin/proposals-console/internal/models"
)

// fakeBackend имитирует REST API бэкенда в памяти.
type fakeBackend struct {
	mu sync.Mutex

	passwords map[string]string // email -> token
	tokens    map[string]models.User
	users     []models.User
	proposals []models.Proposal

	proposalsDown bool
	toggleFails   bool
	loginFails    bool

	registered []api.RegisterRequest
	registerBy []string
	updates    map[int64]models.ProposalFields
	created    []models.ProposalFields
	toggles    []string
}

func boolPtr(b bool) *bool { return &b }

func newFakeBackend() *fakeBackend {
	admin := models.User{ID: 1, Username: "admin", Email: "admin@jcautomation.net", FirstName: "Ada", LastName: "Admin", Role: models.RoleAdmin, IsActive: boolPtr(true)}
	user := models.User{ID: 2, Username: "bob", Email: "bob@jcautomation.net", FirstName: "Bob", LastName: "User", Role: models.RoleUser, IsActive: boolPtr(true)}

	return &fakeBackend{
		passwords: map[string]string{
			admin.Email: "admin-token",
			user.Email:  "user-token",
		},
		tokens: map[string]models.User{
			"admin-token": admin,
			"user-token":  user,
		},
		users: []models.User{admin, user},
		proposals: []models.Proposal{
			{ID: 1, Name: "Conveyor retrofit", Client: "ACME", ClientName: "Jane Roe", Site: "Plant 1", QuoteNumber: "Q-1", Budget: models.NewBudget(1500), OpportunityStatus: "Quote"},
			{ID: 2, Name: "Robot cell", Client: "Globex", ClientName: "John Doe", Site: "Plant 2", QuoteNumber: "Q-2", Budget: models.NewBudget(98000), OpportunityStatus: "Approved"},
			{ID: 3, Name: "Sensor audit", Client: "ACME", ClientName: "Jane Roe", Site: "Plant 3", QuoteNumber: "Q-3", OpportunityStatus: "Pending"},
		},
		updates: map[int64]models.ProposalFields{},
	}
}

func (f *fakeBackend) revoke(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
}

func (f *fakeBackend) setProposalsDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.proposalsDown = down
}

func (f *fakeBackend) setLoginFails(fails bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginFails = fails
}

func (f *fakeBackend) setToggleFails(fails bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggleFails = fails
}

func (f *fakeBackend) snapshot() (registered []api.RegisterRequest, registerBy []string, updates map[int64]models.ProposalFields, created []models.ProposalFields, toggles []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	updates = make(map[int64]models.ProposalFields, len(f.updates))
	for k, v := range f.updates {
		updates[k] = v
	}
	return append([]api.RegisterRequest(nil), f.registered...),
		append([]string(nil), f.registerBy...),
		updates,
		append([]models.ProposalFields(nil), f.created...),
		append([]string(nil), f.toggles...)
}

func (f *fakeBackend) bearer(c *gin.Context) (models.User, bool) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	u, ok := f.tokens[token]
	return u, ok
}

func (f *fakeBackend) router() http.Handler {
	r := gin.New()

	r.POST("/auth/login", func(c *gin.Context) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = c.ShouldBindJSON(&body)

		f.mu.Lock()
		defer f.mu.Unlock()
		if f.loginFails {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database is locked"})
			return
		}
		token, ok := f.passwords[body.Email]
		if !ok || body.Password != "secret" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Login successful", "access_token": token})
	})

	r.GET("/auth/me", func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		u, ok := f.bearer(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "Token has been revoked"})
			return
		}
		c.JSON(http.StatusOK, u)
	})

	r.POST("/auth/register", func(c *gin.Context) {
		var body api.RegisterRequest
		_ = c.ShouldBindJSON(&body)

		f.mu.Lock()
		defer f.mu.Unlock()
		if _, exists := f.passwords[body.Email]; exists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
			return
		}
		f.registered = append(f.registered, body)
		f.registerBy = append(f.registerBy, c.GetHeader("Authorization"))
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
	})

	r.GET("/users/all", func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		role := c.Query("role")
		out := []models.User{}
		for _, u := range f.users {
			if role == "" || u.Role == role {
				out = append(out, u)
			}
		}
		c.JSON(http.StatusOK, out)
	})

	toggle := func(active bool) gin.HandlerFunc {
		return func(c *gin.Context) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if u, ok := f.bearer(c); !ok || u.Role != models.RoleAdmin {
				c.JSON(http.StatusForbidden, gin.H{"error": "Admins only"})
				return
			}
			if f.toggleFails {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
				return
			}
			id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
			f.toggles = append(f.toggles, c.Request.Method+" "+c.Param("id"))
			for i := range f.users {
				if f.users[i].ID == id {
					f.users[i].SetActive(active)
				}
			}
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		}
	}
	r.DELETE("/users/:id/disable", toggle(false))
	r.PATCH("/users/:id/enable", toggle(true))

	r.GET("/proposals", func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.proposalsDown {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database is gone"})
			return
		}
		name := strings.ToLower(c.Query("name"))
		client := strings.ToLower(c.Query("client"))
		out := []models.Proposal{}
		for _, p := range f.proposals {
			if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
				continue
			}
			if client != "" && !strings.Contains(strings.ToLower(p.Client), client) {
				continue
			}
			out = append(out, p)
		}
		c.JSON(http.StatusOK, out)
	})

	r.GET("/proposals/:id", func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		for _, p := range f.proposals {
			if p.ID == id {
				c.JSON(http.StatusOK, p)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Proposal not found"})
	})

	r.PUT("/proposals/:id", func(c *gin.Context) {
		var fields models.ProposalFields
		raw, _ := c.GetRawData()
		_ = json.Unmarshal(raw, &fields)

		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.bearer(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "Missing Authorization Header"})
			return
		}
		id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		f.updates[id] = fields
		c.JSON(http.StatusOK, gin.H{"message": "Proposal updated", "proposal": gin.H{"id": id, "name": fields.Name}})
	})

	r.POST("/proposals", func(c *gin.Context) {
		var fields models.ProposalFields
		_ = c.ShouldBindJSON(&fields)

		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.bearer(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "Missing Authorization Header"})
			return
		}
		f.created = append(f.created, fields)
		c.JSON(http.StatusCreated, gin.H{"message": "Proposal created", "proposal": gin.H{"id": 10, "name": fields.Name}, "tasks": []string{}})
	})

	return r
}
