// Package service contains the business logic.
//
// It sits between the handler layer and the Azure DevOps client: it
// receives validated data, builds the patch document and creates the item.
package service
