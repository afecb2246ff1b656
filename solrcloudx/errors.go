package solrcloudx

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mlibrary/solr-cloud-connection/errorx"
	"github.com/mlibrary/solr-cloud-connection/httpx"
	"github.com/tidwall/gjson"
)

// Sentinels carried as the original error of every *errorx.CliniaError returned
// by this package. Match them with errors.Is.
var (
	ErrConnectionFailed  = errors.New("connection failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrUnsupportedRemote = errors.New("unsupported remote")
	ErrNoSuchCollection  = errors.New("no such collection")
	ErrNoSuchConfigSet   = errors.New("no such configset")
	ErrNoSuchAlias       = errors.New("no such alias")
	ErrWontOverwrite     = errors.New("won't overwrite")
	ErrIllegalName       = errors.New("illegal name")
	ErrConfigSetInUse    = errors.New("configset in use")
	ErrCollectionAliased = errors.New("collection aliased")
)

func withSentinel(cerr *errorx.CliniaError, sentinel, cause error) *errorx.CliniaError {
	if cause == nil {
		return cerr.WithOriginalError(sentinel)
	}
	return cerr.WithOriginalError(fmt.Errorf("%w: %w", sentinel, cause))
}

func connectionFailedError(url string, cause error) error {
	return withSentinel(errorx.UnavailableErrorf("can't connect to %s", url), ErrConnectionFailed, cause)
}

func unauthorizedError(url string, cause error) error {
	return withSentinel(errorx.UnauthenticatedErrorf("solr at %s rejected the credentials", url), ErrUnauthorized, cause)
}

func unsupportedRemoteError(format string, args ...any) error {
	return withSentinel(errorx.FailedPreconditionErrorf(format, args...), ErrUnsupportedRemote, nil)
}

func noSuchCollectionError(name string) error {
	return withSentinel(errorx.NotFoundErrorf("collection '%s' doesn't exist", name), ErrNoSuchCollection, nil)
}

func noSuchConfigSetError(name string) error {
	return withSentinel(errorx.NotFoundErrorf("configset '%s' doesn't exist", name), ErrNoSuchConfigSet, nil)
}

func noSuchAliasError(name string) error {
	return withSentinel(errorx.NotFoundErrorf("alias '%s' doesn't exist", name), ErrNoSuchAlias, nil)
}

func wontOverwriteError(format string, args ...any) error {
	return withSentinel(errorx.AlreadyExistsErrorf(format, args...), ErrWontOverwrite, nil)
}

func illegalNameError(name string) error {
	return withSentinel(
		errorx.InvalidArgumentErrorf("'%s' is not a valid solr name. Use only ASCII letters/numbers, dash, dot and underscore", name),
		ErrIllegalName, nil,
	)
}

func configSetInUseError(name string, cause error) error {
	return withSentinel(errorx.FailedPreconditionErrorf("configset '%s' can't be deleted; it is in use by a collection", name), ErrConfigSetInUse, cause)
}

func collectionAliasedError(name string, aliases []string, cause error) error {
	return withSentinel(
		errorx.FailedPreconditionErrorf("collection '%s' can't be deleted; it's in use by aliases [%s]", name, strings.Join(aliases, ", ")),
		ErrCollectionAliased, cause,
	)
}

// solrErrorMessage returns error.msg of a Solr error body, if any.
func solrErrorMessage(err error) (int, string, bool) {
	re, ok := httpx.AsResponseError(err)
	if !ok {
		return 0, "", false
	}
	return re.StatusCode, gjson.GetBytes(re.Body, "error.msg").String(), true
}

var messageAliases = regexp.MustCompile(`aliases: ?\[([^\]]*)\]`)

// aliasesFromMessage reads the alias list out of Solr's refusal to delete an aliased collection.
func aliasesFromMessage(msg string) []string {
	m := messageAliases.FindStringSubmatch(msg)
	if m == nil {
		return nil
	}
	return strings.FieldsFunc(m[1], func(r rune) bool {
		return r == ',' || r == ' '
	})
}
