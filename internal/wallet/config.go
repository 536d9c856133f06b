package wallet

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/zmlAEQ/govbls/internal/bls/bls381"
	"github.com/zmlAEQ/govbls/internal/bls/sig"
	"github.com/zmlAEQ/govbls/pkg/bus"
)

// RoleChecker gates who may call Verify and administrative functions.
type RoleChecker interface {
	HasRole(role string, addr Address) bool
}

// Whitelist and Blacklist are membership predicates consumed by the
// surrounding accounting code (loans, staking). The wallet core never calls
// them; they are declared here as the collaborator contract hosts implement.
type Whitelist interface {
	IsWhitelisted(addr Address) bool
}

type Blacklist interface {
	IsBlacklisted(addr Address) bool
}

// Executor performs the external call bound to an approved operation.
type Executor interface {
	Call(target Address, value *big.Int, gasLimit uint64, payload []byte) error
}

// RoleVerifier is required to resolve pending operations.
const RoleVerifier = "verifier"

const (
	defaultMinGasLimit    = 21000
	defaultMaxPayloadSize = 1 << 16
)

// MemberKey is one member's setup material: the raw public key and, in
// threshold mode, the member's possession-proof point on the opposite curve
// (supplied out-of-band, see MemberID).
type MemberKey struct {
	PublicKey []byte
	IDPoint   []byte
}

// Config fully describes a wallet instance. There is no two-phase
// initialization: New validates and builds everything up front.
type Config struct {
	Mode sig.Mode
	// DST is the fixed ASCII domain separation tag shared by every
	// hash-to-curve call of this deployment. At most 255 bytes.
	DST string
	// Threshold is the minimum number of distinct signers for approval.
	// Zero selects plain-aggregate mode, where every member must sign.
	Threshold int
	Members   []MemberKey

	MinGasLimit    uint64
	MaxPayloadSize int

	Roles    RoleChecker // nil allows every caller
	Executor Executor

	// JournalPath, when set, appends every status transition to a JSON-line
	// journal file for audit and restart inspection.
	JournalPath string

	Clock   func() time.Time // nil uses time.Now
	Backend bls381.Backend   // nil uses the software backend
	Bus     *bus.Bus         // optional lifecycle event sink
}

var (
	ErrNoMembers        = errors.New("wallet: no members configured")
	ErrBadThreshold     = errors.New("wallet: threshold out of range")
	ErrNoExecutor       = errors.New("wallet: executor is required")
	ErrDSTInvalid       = errors.New("wallet: dst empty or longer than 255 bytes")
	ErrMissingIDPoint   = errors.New("wallet: member id point required in threshold mode")
	ErrInvalidPublicKey = errors.New("wallet: invalid member public key")
)

func (c *Config) withDefaults() {
	if c.MinGasLimit == 0 {
		c.MinGasLimit = defaultMinGasLimit
	}
	if c.MaxPayloadSize == 0 {
		c.MaxPayloadSize = defaultMaxPayloadSize
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Backend == nil {
		c.Backend = bls381.Default()
	}
}

// Validate checks the configuration shape. Cryptographic setup checks run
// in New, not here.
func (c *Config) Validate() error {
	if !c.Mode.Valid() {
		return sig.ErrInvalidMode
	}
	if len(c.DST) == 0 || len(c.DST) > 255 {
		return ErrDSTInvalid
	}
	if len(c.Members) == 0 {
		return ErrNoMembers
	}
	if c.Threshold < 0 || c.Threshold > len(c.Members) {
		return ErrBadThreshold
	}
	if c.Executor == nil {
		return ErrNoExecutor
	}
	pkSize := c.Mode.PubKeySize()
	for i, m := range c.Members {
		if len(m.PublicKey) != pkSize {
			return fmt.Errorf("%w: member %d", ErrInvalidPublicKey, i)
		}
		if c.Threshold > 0 && len(m.IDPoint) != c.Mode.SigSize() {
			return fmt.Errorf("%w: member %d", ErrMissingIDPoint, i)
		}
	}
	return nil
}
