package obj8

import (
	"fmt"
	"strings"
)

// Command identifies an OBJ8 body command.
type Command int

const (
	CmdUnknown Command = iota
	CmdEnd
	CmdTexture
	CmdTextureLit
	CmdTextureNormal
	CmdVT
	CmdVLine
	CmdIDX10
	CmdIDX
	CmdTris
	CmdAnimBegin
	CmdAnimEnd
	CmdAnimTrans
	CmdAnimRotate
	CmdAnimRotateBegin
	CmdAnimRotateKey
	CmdAnimRotateEnd
	CmdAnimTransBegin
	CmdAnimTransKey
	CmdAnimTransEnd
	CmdMetadata // "####_" comment line
)

var commandNames = map[Command]string{
	CmdEnd:             "end",
	CmdTexture:         "TEXTURE",
	CmdTextureLit:      "TEXTURE_LIT",
	CmdTextureNormal:   "TEXTURE_NORMAL",
	CmdVT:              "VT",
	CmdVLine:           "VLINE",
	CmdIDX10:           "IDX10",
	CmdIDX:             "IDX",
	CmdTris:            "TRIS",
	CmdAnimBegin:       "ANIM_begin",
	CmdAnimEnd:         "ANIM_end",
	CmdAnimTrans:       "ANIM_trans",
	CmdAnimRotate:      "ANIM_rotate",
	CmdAnimRotateBegin: "ANIM_rotate_begin",
	CmdAnimRotateKey:   "ANIM_rotate_key",
	CmdAnimRotateEnd:   "ANIM_rotate_end",
	CmdAnimTransBegin:  "ANIM_trans_begin",
	CmdAnimTransKey:    "ANIM_trans_key",
	CmdAnimTransEnd:    "ANIM_trans_end",
}

var commandsByName = func() map[string]Command {
	m := make(map[string]Command, len(commandNames))
	for cmd, name := range commandNames {
		m[name] = cmd
	}
	return m
}()

// LookupCommand maps a leading token to its command. Unrecognized tokens
// map to CmdUnknown.
func LookupCommand(tok string) Command {
	if cmd, ok := commandsByName[tok]; ok {
		return cmd
	}
	if strings.HasPrefix(tok, metadataMarker) {
		return CmdMetadata
	}
	return CmdUnknown
}

// String returns the command keyword as it appears in OBJ8 files.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	switch c {
	case CmdMetadata:
		return metadataMarker
	case CmdUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}
