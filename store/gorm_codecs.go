package store

import (
	"time"

	"budgetbook/models"
	"budgetbook/normalize"
)

func has(rec Record, key string) (any, bool) {
	v, ok := rec[key]
	return v, ok
}

func datePtr(v any) *time.Time {
	t := normalize.Date(v)
	if t.IsZero() {
		return nil
	}
	return &t
}

func timePtr(v any) *time.Time {
	t := normalize.Time(v)
	if t.IsZero() {
		return nil
	}
	return &t
}

func dateOut(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC().Format(models.DateLayout)
}

func timeOut(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return *t
}

func refOut(id int) any {
	if id <= 0 {
		return nil
	}
	return id
}

var transactionCodec = codec[models.TransactionRow]{
	categoryRef: true,
	id:          func(r *models.TransactionRow) int { return r.ID },
	setID:       func(r *models.TransactionRow, id int) { r.ID = id },
	toRecord: func(r *models.TransactionRow) Record {
		return Record{
			"Id":            r.ID,
			"Name":          r.Name,
			"title_c":       r.TitleC,
			"amount_c":      r.AmountC,
			"type_c":        r.TypeC,
			"category_c":    refOut(r.CategoryC),
			"description_c": r.DescriptionC,
			"date_c":        dateOut(r.DateC),
			"created_at_c":  timeOut(r.CreatedAtC),
		}
	},
	apply: func(r *models.TransactionRow, rec Record) {
		if v, ok := has(rec, "Name"); ok {
			r.Name = normalize.String(v)
		}
		if v, ok := has(rec, "title_c"); ok {
			r.TitleC = normalize.String(v)
		}
		if v, ok := has(rec, "amount_c"); ok {
			r.AmountC = normalize.Decimal(v)
		}
		if v, ok := has(rec, "type_c"); ok {
			r.TypeC = normalize.String(v)
		}
		if v, ok := has(rec, "category_c"); ok {
			r.CategoryC = normalize.RefID(v)
		}
		if v, ok := has(rec, "description_c"); ok {
			r.DescriptionC = normalize.String(v)
		}
		if v, ok := has(rec, "date_c"); ok {
			r.DateC = datePtr(v)
		}
		if v, ok := has(rec, "created_at_c"); ok {
			r.CreatedAtC = timePtr(v)
		}
	},
}

var categoryCodec = codec[models.CategoryRow]{
	id:    func(r *models.CategoryRow) int { return r.ID },
	setID: func(r *models.CategoryRow, id int) { r.ID = id },
	toRecord: func(r *models.CategoryRow) Record {
		return Record{
			"Id":           r.ID,
			"Name":         r.Name,
			"name_c":       r.NameC,
			"type_c":       r.TypeC,
			"color_c":      r.ColorC,
			"is_default_c": r.IsDefaultC,
		}
	},
	apply: func(r *models.CategoryRow, rec Record) {
		if v, ok := has(rec, "Name"); ok {
			r.Name = normalize.String(v)
		}
		if v, ok := has(rec, "name_c"); ok {
			r.NameC = normalize.String(v)
		}
		if v, ok := has(rec, "type_c"); ok {
			r.TypeC = normalize.String(v)
		}
		if v, ok := has(rec, "color_c"); ok {
			r.ColorC = normalize.String(v)
		}
		if v, ok := has(rec, "is_default_c"); ok {
			r.IsDefaultC = normalize.Bool(v)
		}
	},
}

var budgetCodec = codec[models.BudgetRow]{
	categoryRef: true,
	id:          func(r *models.BudgetRow) int { return r.ID },
	setID:       func(r *models.BudgetRow, id int) { r.ID = id },
	toRecord: func(r *models.BudgetRow) Record {
		return Record{
			"Id":         r.ID,
			"Name":       r.Name,
			"title_c":    r.TitleC,
			"category_c": refOut(r.CategoryC),
			"limit_c":    r.LimitC,
			"spent_c":    r.SpentC,
			"month_c":    r.MonthC,
			"year_c":     r.YearC,
		}
	},
	apply: func(r *models.BudgetRow, rec Record) {
		if v, ok := has(rec, "Name"); ok {
			r.Name = normalize.String(v)
		}
		if v, ok := has(rec, "title_c"); ok {
			r.TitleC = normalize.String(v)
		}
		if v, ok := has(rec, "category_c"); ok {
			r.CategoryC = normalize.RefID(v)
		}
		if v, ok := has(rec, "limit_c"); ok {
			r.LimitC = normalize.Decimal(v)
		}
		if v, ok := has(rec, "spent_c"); ok {
			r.SpentC = normalize.Decimal(v)
		}
		if v, ok := has(rec, "month_c"); ok {
			r.MonthC = normalize.Month(v)
		}
		if v, ok := has(rec, "year_c"); ok {
			r.YearC = normalize.Int(v)
		}
	},
}

var goalCodec = codec[models.GoalRow]{
	id:    func(r *models.GoalRow) int { return r.ID },
	setID: func(r *models.GoalRow, id int) { r.ID = id },
	toRecord: func(r *models.GoalRow) Record {
		return Record{
			"Id":               r.ID,
			"Name":             r.Name,
			"name_c":           r.NameC,
			"target_amount_c":  r.TargetAmountC,
			"current_amount_c": r.CurrentAmountC,
			"target_date_c":    dateOut(r.TargetDateC),
			"created_at_c":     timeOut(r.CreatedAtC),
		}
	},
	apply: func(r *models.GoalRow, rec Record) {
		if v, ok := has(rec, "Name"); ok {
			r.Name = normalize.String(v)
		}
		if v, ok := has(rec, "name_c"); ok {
			r.NameC = normalize.String(v)
		}
		if v, ok := has(rec, "target_amount_c"); ok {
			r.TargetAmountC = normalize.Decimal(v)
		}
		if v, ok := has(rec, "current_amount_c"); ok {
			r.CurrentAmountC = normalize.Decimal(v)
		}
		if v, ok := has(rec, "target_date_c"); ok {
			r.TargetDateC = datePtr(v)
		}
		if v, ok := has(rec, "created_at_c"); ok {
			r.CreatedAtC = timePtr(v)
		}
	},
}

var profileCodec = codec[models.ProfileRow]{
	clientID: true,
	id:       func(r *models.ProfileRow) int { return r.ID },
	setID:    func(r *models.ProfileRow, id int) { r.ID = id },
	toRecord: func(r *models.ProfileRow) Record {
		return Record{
			"Id":         r.ID,
			"Name":       r.Name,
			"name_c":     r.NameC,
			"avatar_c":   r.AvatarC,
			"website_c":  r.WebsiteC,
			"bio_c":      r.BioC,
			"email_id_c": r.EmailIDC,
		}
	},
	apply: func(r *models.ProfileRow, rec Record) {
		if v, ok := has(rec, "Name"); ok {
			r.Name = normalize.String(v)
		}
		if v, ok := has(rec, "name_c"); ok {
			r.NameC = normalize.String(v)
		}
		if v, ok := has(rec, "avatar_c"); ok {
			r.AvatarC = normalize.String(v)
		}
		if v, ok := has(rec, "website_c"); ok {
			r.WebsiteC = normalize.String(v)
		}
		if v, ok := has(rec, "bio_c"); ok {
			r.BioC = normalize.String(v)
		}
		if v, ok := has(rec, "email_id_c"); ok {
			r.EmailIDC = normalize.String(v)
		}
	},
}
