package points

import "ecomapa/internal/domain/point"

type createInput struct {
	Body point.CreateRequest
}

type createOutput struct {
	Body point.Point
}

type listInput struct {
	Types string `query:"types"`
}

type listOutput struct {
	Body []point.Point
}

type mySubmitsInput struct {
	Page int `query:"page"`
}

type mySubmitsOutput struct {
	Body point.Page
}

type getInput struct {
	ID int `path:"id"`
}

type getOutput struct {
	Body point.Point
}

type deleteInput struct {
	ID int `path:"id"`
}

type deleteOutput struct{}

type categoriesInput struct{}

type categoriesOutput struct {
	Body []point.Category
}
