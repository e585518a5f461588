package erc20

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

const spender = "0x1231DEB6f5749EF6cE6943a275A1D3E7486F4EaE"

func TestPackApprove(t *testing.T) {
	data, err := PackApprove(spender, "1234500")
	require.NoError(t, err)
	require.Len(t, data, 4+32+32)
	require.Equal(t, "0x095ea7b3", hexutil.Encode(data[:4]))
	require.Equal(t, common.HexToAddress(spender).Bytes(), data[4+12:4+32])
	require.Equal(t, 0, new(big.Int).SetBytes(data[36:]).Cmp(big.NewInt(1234500)))
}

func TestPackApproveRejectsBadInput(t *testing.T) {
	_, err := PackApprove("not-an-address", "1")
	require.Error(t, err)

	_, err = PackApprove(spender, "1.5")
	require.Error(t, err)

	_, err = PackApprove(spender, "-1")
	require.Error(t, err)
}

func TestAllowanceRoundTrip(t *testing.T) {
	data, err := PackAllowance("0x0000000000000000000000000000000000000001", spender)
	require.NoError(t, err)
	require.Equal(t, "0xdd62ed3e", hexutil.Encode(data[:4]))

	v, err := UnpackAllowance(common.LeftPadBytes(big.NewInt(42).Bytes(), 32))
	require.NoError(t, err)
	require.Equal(t, int64(42), v.Int64())

	v, err = UnpackAllowance(nil)
	require.NoError(t, err)
	require.Zero(t, v.Sign())
}
