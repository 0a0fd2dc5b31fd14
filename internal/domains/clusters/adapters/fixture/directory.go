package fixture

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/minglemakers/minglemakers-api/internal/domains/clusters/domain"
	"github.com/minglemakers/minglemakers-api/internal/domains/clusters/ports"
)

//go:embed members.json
var defaultMembers []byte

var _ ports.MemberDirectory = (*Directory)(nil)

// Directory serves cluster members from a static JSON document.
type Directory struct {
	members []domain.Member
}

// Default loads the bundled member list.
func Default() (*Directory, error) {
	return Decode(bytes.NewReader(defaultMembers))
}

// LoadFile reads members from path, or the bundled list when path is empty.
func LoadFile(path string) (*Directory, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open member fixture: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a member document.
func Decode(r io.Reader) (*Directory, error) {
	var doc struct {
		Members []domain.Member `json:"members"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode member fixture: %w", err)
	}
	return &Directory{members: doc.Members}, nil
}

// Members returns the members of clusterID (case-insensitive) in document order.
func (d *Directory) Members(_ context.Context, clusterID string) ([]domain.Member, error) {
	var out []domain.Member
	for _, m := range d.members {
		if strings.EqualFold(m.Cluster, clusterID) {
			out = append(out, m)
		}
	}
	return out, nil
}
