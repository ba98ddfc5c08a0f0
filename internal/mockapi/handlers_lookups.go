package mockapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/goatkit/novadmin/internal/apierrors"
	"github.com/goatkit/novadmin/internal/permissions"
	"github.com/goatkit/novadmin/internal/status"
)

func (s *Server) handleStatuses(c *gin.Context) {
	sendSuccess(c, status.All())
}

func (s *Server) handleCategoryStatuses(c *gin.Context) {
	category, ok := status.ParseCategory(c.Param("category"))
	if !ok {
		apierrors.Error(c, apierrors.CodeUnknownCategory)
		return
	}
	sendSuccess(c, status.All()[category])
}

func (s *Server) handleStatus(c *gin.Context) {
	category, ok := status.ParseCategory(c.Param("category"))
	if !ok {
		apierrors.Error(c, apierrors.CodeUnknownCategory)
		return
	}
	d, ok := status.Lookup(string(category), c.Param("code"))
	if !ok {
		apierrors.Error(c, apierrors.CodeUnknownStatus)
		return
	}
	sendSuccess(c, d)
}

func (s *Server) handleErrorCodes(c *gin.Context) {
	codes := apierrors.Registry.ByNamespace(strings.ToLower(c.Param("namespace")))
	if len(codes) == 0 {
		apierrors.Error(c, apierrors.CodeNotFound)
		return
	}
	sendSuccess(c, codes)
}

type priorityItem struct {
	Level string `json:"level"`
	Rank  int    `json:"rank"`
	status.PriorityDescriptor
}

func (s *Server) handlePriorities(c *gin.Context) {
	levels := status.PriorityLevels()
	items := make([]priorityItem, 0, len(levels))
	for _, level := range levels {
		items = append(items, priorityItem{
			Level:              level,
			Rank:               status.PriorityRank(level),
			PriorityDescriptor: status.PriorityConfig(level),
		})
	}
	sendSuccess(c, items)
}

type roleItem struct {
	Role        permissions.Role         `json:"role"`
	Level       int                      `json:"level"`
	Assignable  bool                     `json:"assignable"`
	Permissions []permissions.Permission `json:"permissions"`
}

// handleRoles lists every role with its default grants and whether the caller
// may assign it.
func (s *Server) handleRoles(c *gin.Context) {
	actor, _ := permissions.ParseRole(c.GetString(ctxUserRole))
	roles := permissions.Roles()
	items := make([]roleItem, 0, len(roles))
	for _, r := range roles {
		items = append(items, roleItem{
			Role:        r,
			Level:       permissions.Level(r),
			Assignable:  permissions.CanAssign(actor, r),
			Permissions: permissions.DefaultPermissions(r),
		})
	}
	sendSuccess(c, items)
}
