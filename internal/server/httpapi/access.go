package httpapi

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shelftrack/internal/common"
)

const (
	collectionBooks = "books"
	collectionUsers = "users"
	collectionStats = "readingStats"

	fieldUserID = "userId"
)

// authorizeDoc enforces per-collection access rules. Profile and stats
// documents are keyed by account id, so access reduces to an id check.
// Books are checked against the stored owner field; a missing book may be
// created only when the incoming fields name the caller as owner.
func (a *API) authorizeDoc(c *gin.Context, col, id string, fields map[string]any, allowCreate bool) error {
	caller := callerID(c)

	switch col {
	case collectionUsers, collectionStats:
		if id != caller {
			return common.ErrPermissionDenied
		}
		return nil

	case collectionBooks:
		doc, err := a.store.GetDoc(c.Request.Context(), col, id)
		if errors.Is(err, common.ErrNotFound) {
			if !allowCreate {
				return common.ErrNotFound
			}
			if owner, _ := fields[fieldUserID].(string); owner != caller {
				return common.ErrPermissionDenied
			}
			return nil
		}
		if err != nil {
			return err
		}
		if owner, _ := doc.Fields[fieldUserID].(string); owner != caller {
			return common.ErrPermissionDenied
		}
		return nil

	default:
		return common.ErrPermissionDenied
	}
}
