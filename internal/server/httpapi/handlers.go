package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shelftrack/internal/common"
	"shelftrack/internal/server/auth"
	"shelftrack/internal/server/store"
)

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type authResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

type docResponse struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type filterDTO struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value any    `json:"value"`
}

type queryRequest struct {
	Filters []filterDTO `json:"filters"`
	OrderBy string      `json:"order_by"`
	Desc    bool        `json:"desc"`
}

type queryResponse struct {
	Documents []docResponse `json:"documents"`
}

func (a *API) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password, a.bcryptCost)
	if err != nil {
		a.respondError(c, err)
		return
	}

	account, err := a.store.CreateAccount(c.Request.Context(), req.Email, hash)
	if err != nil {
		a.respondError(c, err)
		return
	}

	a.issueToken(c, account.ID)
}

func (a *API) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := a.store.AccountByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		a.respondError(c, err)
		return
	}

	if !auth.CheckPassword(account.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	a.issueToken(c, account.ID)
}

func (a *API) issueToken(c *gin.Context, userID string) {
	token, err := auth.GenerateToken(userID, a.secretKey, a.tokenValidity)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse{UserID: userID, Token: token})
}

// Logout exists so clients have a uniform sign-out call. Tokens are
// stateless, there is nothing to revoke server-side.
func (a *API) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (a *API) Me(c *gin.Context) {
	account, err := a.store.AccountByID(c.Request.Context(), callerID(c))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown account"})
			return
		}
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": account.ID, "email": account.Email})
}

func (a *API) GetDoc(c *gin.Context) {
	col, id := c.Param("col"), c.Param("id")
	if err := a.authorizeDoc(c, col, id, nil, false); err != nil {
		a.respondError(c, err)
		return
	}

	doc, err := a.store.GetDoc(c.Request.Context(), col, id)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, docResponse{ID: doc.ID, Fields: doc.Fields})
}

func (a *API) AddDoc(c *gin.Context) {
	col := c.Param("col")
	fields, ok := bindFields(c)
	if !ok {
		return
	}

	if col != collectionBooks {
		a.respondError(c, common.ErrPermissionDenied)
		return
	}
	if owner, _ := fields[fieldUserID].(string); owner != callerID(c) {
		a.respondError(c, common.ErrPermissionDenied)
		return
	}

	id, err := a.store.AddDoc(c.Request.Context(), col, fields)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, docResponse{ID: id, Fields: fields})
}

func (a *API) SetDoc(c *gin.Context) {
	col, id := c.Param("col"), c.Param("id")
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	if err := a.authorizeDoc(c, col, id, fields, true); err != nil {
		a.respondError(c, err)
		return
	}

	merge := c.Query("merge") == "1"
	if err := a.store.SetDoc(c.Request.Context(), col, id, fields, merge); err != nil {
		a.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) UpdateDoc(c *gin.Context) {
	col, id := c.Param("col"), c.Param("id")
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	if err := a.authorizeDoc(c, col, id, fields, false); err != nil {
		a.respondError(c, err)
		return
	}

	if err := a.store.UpdateDoc(c.Request.Context(), col, id, fields); err != nil {
		a.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) DeleteDoc(c *gin.Context) {
	col, id := c.Param("col"), c.Param("id")
	if err := a.authorizeDoc(c, col, id, nil, false); err != nil {
		a.respondError(c, err)
		return
	}

	if err := a.store.DeleteDoc(c.Request.Context(), col, id); err != nil {
		a.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) QueryDocs(c *gin.Context) {
	col := c.Param("col")
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q := store.Query{OrderBy: req.OrderBy, Desc: req.Desc}
	ownerScoped := false
	for _, f := range req.Filters {
		if f.Op != "" && f.Op != "==" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported filter operator"})
			return
		}
		if f.Field == fieldUserID && f.Value == callerID(c) {
			ownerScoped = true
		}
		q.Filters = append(q.Filters, store.Filter{Field: f.Field, Value: f.Value})
	}

	// Queries may only run against the caller's own books.
	if col != collectionBooks || !ownerScoped {
		a.respondError(c, common.ErrPermissionDenied)
		return
	}

	docs, err := a.store.QueryDocs(c.Request.Context(), col, q)
	if err != nil {
		a.respondError(c, err)
		return
	}

	resp := queryResponse{Documents: make([]docResponse, 0, len(docs))}
	for _, d := range docs {
		resp.Documents = append(resp.Documents, docResponse{ID: d.ID, Fields: d.Fields})
	}
	c.JSON(http.StatusOK, resp)
}

func bindFields(c *gin.Context) (map[string]any, bool) {
	fields := map[string]any{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return fields, true
}

func (a *API) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrPermissionDenied), errors.Is(err, common.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	case errors.Is(err, common.ErrIndexRequired):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "no index supports the requested ordering"})
	default:
		a.logger.Error(c.Request.Context(), "internal error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
