package repo

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
)

var scpSyntaxRe = regexp.MustCompile(`^([a-zA-Z0-9_]+)@([a-zA-Z0-9._-]+):(.*)$`)

// gitRemoteRepoId turns either git@host:path or a URL into host/path.
func gitRemoteRepoId(configUrl string) (string, error) {
	var id string
	if m := scpSyntaxRe.FindStringSubmatch(configUrl); m != nil {
		id = fmt.Sprintf("%s/%s", m[2], m[3])
	} else {
		repoURL, err := url.Parse(configUrl)
		if err != nil {
			return "", err
		}

		if repoURL.Host == "" {
			return "", fmt.Errorf("remote has no host: %s", configUrl)
		}

		id = repoURL.Host + "/" + strings.TrimPrefix(repoURL.Path, "/")
	}

	return strings.TrimSuffix(id, ".git"), nil
}

// detectRepoId names an opam-repository checkout after its origin remote,
// e.g. github.com/ocaml/opam-repository. Checkouts without a usable remote
// fall back to the directory name.
func detectRepoId(root string) (string, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return filepath.Base(root), nil
		}

		return "", err
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		if err == git.ErrRemoteNotFound {
			return filepath.Base(root), nil
		}

		return "", err
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return filepath.Base(root), nil
	}

	return gitRemoteRepoId(urls[0])
}
