package api

import (
	"budgetbook/catfilter"
	"budgetbook/models"
	"budgetbook/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 收支类别管理
type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

type CategoryRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=50" example:"餐饮"`
	Type  string `json:"type" binding:"required,oneof=income expense" example:"expense"`
	Color string `json:"color" binding:"omitempty,max=20" example:"#ef4444"` // 颜色代码，如 #ef4444
}

func (r CategoryRequest) category(id int) models.Category {
	return models.Category{ID: id, Name: r.Name, Type: models.EntryType(r.Type), Color: r.Color}
}

// List 列出类别
// @Summary 获取类别列表
// @Description 按录入顺序返回全部类别，支持按名称模糊搜索
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param name query string false "类别名称（模糊匹配）"
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.categories.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err, "查询类别失败")
		return
	}
	Success(c, list)
}

// Options 表单下拉选项
// @Summary 获取类别选项
// @Description 返回指定类型的类别选项，order=name 按名称排序，order=insertion 保持录入顺序
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param type query string true "类型 income/expense"
// @Param order query string false "排序 name/insertion" default(name)
// @Success 200 {object} Response{data=[]catfilter.Option} "获取成功"
// @Failure 400 {object} Response "类型无效"
// @Router /api/v1/categories/options [get]
func (h *CategoryHandler) Options(c *gin.Context) {
	t, ok := models.ParseEntryType(c.Query("type"))
	if !ok {
		BadRequest(c, "类型必须为 income 或 expense")
		return
	}
	opts, err := h.categories.Options(c.Request.Context(), t, catfilter.ParseOrder(c.Query("order")))
	if err != nil {
		respondError(c, err, "查询类别失败")
		return
	}
	Success(c, opts)
}

// Stats 类别数量统计
// @Summary 获取类别统计
// @Description 返回类别总数、收入类别数和支出类别数
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=catfilter.Stats} "获取成功"
// @Router /api/v1/categories/stats [get]
func (h *CategoryHandler) Stats(c *gin.Context) {
	stats, err := h.categories.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "查询类别失败")
		return
	}
	Success(c, stats)
}

// Create 创建类别
// @Summary 创建类别
// @Description 创建新的收支类别，未指定颜色时使用默认灰色
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	cat, err := h.categories.Create(c.Request.Context(), req.category(0))
	if err != nil {
		respondError(c, err, "创建类别失败")
		return
	}
	SuccessWithMessage(c, "创建成功", cat)
}

// Update 更新类别
// @Summary 更新类别
// @Description 更新类别名称、类型和颜色，默认类别标记不可修改
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Param request body CategoryRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "更新成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	cat, err := h.categories.Update(c.Request.Context(), req.category(id))
	if err != nil {
		respondError(c, err, "更新类别失败")
		return
	}
	SuccessWithMessage(c, "更新成功", cat)
}

// Delete 删除类别
// @Summary 删除类别
// @Description 默认类别不能删除；被交易或预算引用的类别可以删除
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} Response "删除成功"
// @Failure 403 {object} Response "默认类别不能删除"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	cat, err := h.categories.Get(ctx, id)
	if err != nil {
		respondError(c, err, "查询类别失败")
		return
	}
	if err := h.categories.Delete(ctx, cat); err != nil {
		respondError(c, err, "删除类别失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
