// Package lib holds modules that do not fit strictly into other layers:
// the Azure DevOps REST client and the AWS Secrets Manager credential
// resolver.
package lib
