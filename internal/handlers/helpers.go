package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/dto"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
)

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, httperr.CodeValidation, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// optionalUint reads a positive integer query parameter. Absent or empty
// values yield nil.
func optionalUint(c *gin.Context, name string) (*uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, httperr.CodeValidation, "Invalid "+name)
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func optionalDate(c *gin.Context, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	return &d, true
}

func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(dto.DefaultPageSize)))
	return page, limit
}

func listQuery(c *gin.Context) dto.ListQuery {
	page, limit := pageParams(c)
	q := dto.ListQuery{
		Search: strings.ToLower(strings.TrimSpace(c.Query("search"))),
		Page:   page,
		Limit:  limit,
	}
	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		v := true
		q.Active = &v
	case "false":
		v := false
		q.Active = &v
	}
	q.Normalize()
	return q
}

// searchList applies search (ILIKE over columns), the active flag and paging
// to q and writes the list envelope.
func searchList[T any](c *gin.Context, q *gorm.DB, lq dto.ListQuery, columns []string, order string) {
	if lq.Search != "" && len(columns) > 0 {
		like := "%" + lq.Search + "%"
		clauses := make([]string, 0, len(columns))
		args := make([]any, 0, len(columns))
		for _, col := range columns {
			clauses = append(clauses, "LOWER("+col+") LIKE ?")
			args = append(args, like)
		}
		q = q.Where(strings.Join(clauses, " OR "), args...)
	}
	if lq.Active != nil {
		q = q.Where("active = ?", *lq.Active)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, httperr.FromStorage(err, "", ""))
		return
	}

	var items []T
	if err := q.Order(order).Limit(lq.Limit).Offset(lq.Offset()).Find(&items).Error; err != nil {
		httperr.Respond(c, httperr.FromStorage(err, "", ""))
		return
	}

	httpresp.List(c, items, dto.NewPagination(lq.Page, lq.Limit, total))
}

// bindJSON writes the validation envelope on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.Write(c, http.StatusBadRequest, httperr.CodeValidation, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
