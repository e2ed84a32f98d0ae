// Package mcpserver는 작업 표면을 stdio MCP 도구와 리소스로 노출한다.
package mcpserver

import (
	"context"
	"fmt"
	"io"

	"github.com/hbjs97/cprof/internal/logging"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerName은 MCP initialize 응답에 실리는 서버 이름이다.
const ServerName = "cursor-profiles"

// ProfilesURI는 스냅샷 리소스 URI다.
const ProfilesURI = "cprof://profiles"

// Operations는 도구가 호출하는 작업 표면이다. manager.Manager가 구현한다.
type Operations interface {
	ListProfiles(ctx context.Context) (string, error)
	SwitchProfile(ctx context.Context, name string) (string, error)
	InitProfile(ctx context.Context, name, account string) (string, error)
	RenameProfile(ctx context.Context, oldName, newName string) (string, error)
	OpenApp(ctx context.Context, name string) (string, error)
	LinkIdentity(ctx context.Context, name, account string) (string, error)
	UnlinkIdentity(ctx context.Context, name string) (string, error)
	ListAccounts(ctx context.Context) (string, error)
	CheckAuth(ctx context.Context, repoPath string) (string, error)
	FixRemote(ctx context.Context, repoPath, account string) (string, error)
	SwitchAccount(ctx context.Context, account string) (string, error)
	Repair(ctx context.Context, name string) (string, error)
	SnapshotJSON(ctx context.Context) (string, error)
}

type args map[string]string

type tool struct {
	def mcp.Tool
	run func(ctx context.Context, ops Operations, a args) (string, error)
}

func tools() []tool {
	return []tool{
		{
			def: mcp.NewTool("list_profiles",
				mcp.WithDescription("List all available profiles; the active one is marked with *")),
			run: func(ctx context.Context, ops Operations, _ args) (string, error) {
				return ops.ListProfiles(ctx)
			},
		},
		{
			def: mcp.NewTool("switch_profile",
				mcp.WithDescription("Switch to a profile, apply its linked GitHub account and open the app"),
				mcp.WithString("profile_name", mcp.Required(), mcp.Description("Name of the profile to switch to"))),
			run: func(ctx context.Context, ops Operations, a args) (string, error) {
				return ops.SwitchProfile(ctx, a["profile_name"])
			},
		},
		{
			def: mcp.NewTool("init_profile",
				mcp.WithDescription("Initialize a new profile from the current configuration"),
				mcp.WithString("profile_name", mcp.Required(), mcp.Description("Name for the new profile")),
				mcp.WithString("account", mcp.Description("GitHub username to link to the profile"))),
			run: func(ctx context.Context, ops Operations, a args) (string, error) {
				return ops.InitProfile(ctx, a["profile_name"], a["account"])
			},
		},
		{
			def: mcp.NewTool("rename_profile",
				mcp.WithDescription("Rename an existing profile"),
				mcp.WithString("old_name", mcp.Required(), mcp.Description("Current name of the profile")),
				mcp.WithString("new_name", mcp.Required(), mcp.Description("New name for the profile"))),
			run: func(ctx context.Context, ops Operations, a args) (string, error) {
				return ops.RenameProfile(ctx, a["old_name"], a["new_name"])
			},
		},
		{
			def: mcp.NewTool("open_app",
				mcp.WithDescription("Open the application with the current profile"),
				mcp.WithString("profile_name", mcp.Description("Profile to open (builtin launch mode only)"))),
			run: func(ctx context.Context, ops Operations, a args) (string, error) {
				return ops.OpenApp(ctx, a["profile_name"])
			},
		},
		{
			def: mcp.NewTool("link_identity",
				mcp.WithDescription("Link a profile to a GitHub account"),
				mcp.WithString("profile_name", mcp.Required(), mcp.Description("Profile name")),
				mcp.WithString("account", mcp.Required(), mcp.Description("GitHub username"))),
			run: func(ctx context.Context, ops Operations, a args) (string, error) {
				return ops.LinkIdentity(ctx, a["profile_name"], a["account"])
			},
		},
		{
			def: mcp.NewTool("unlink_identity",
				mcp.WithDescription("Remove the GitHub account linked to a profile"),
				mcp.WithString("profile_name", mcp.Required(), mcp.Description("Profile name"))),
			run: func(ctx context.Context, ops Operations, a args) (string, error) {
				return ops.UnlinkIdentity(ctx, a["profile_name"])
			},
		},
		{
			def: mcp.NewTool("list_accounts",
				mcp.WithDescription("List GitHub accounts logged in to the gh CLI")),
			run: func(ctx context.Context, ops Operations, _ args) (string, error) {
				return ops.ListAccounts(ctx)
			},
		},
		{
			def: mcp.NewTool("check_auth",
				mcp.WithDescription("Check that a repository's origin remote matches the active GitHub account"),
				mcp.WithString("repo_path", mcp.Required(), mcp.Description("Path to the git repository"))),
			run: func(ctx context.Context, ops Operations, a args) (string, error) {
				return ops.CheckAuth(ctx, a["repo_path"])
			},
		},
		{
			def: mcp.NewTool("fix_remote",
				mcp.WithDescription("Embed a GitHub username in the origin remote URL"),
				mcp.WithString("repo_path", mcp.Required(), mcp.Description("Path to the git repository")),
				mcp.WithString("account", mcp.Description("GitHub username; defaults to the remote owner"))),
			run: func(ctx context.Context, ops Operations, a args) (string, error) {
				return ops.FixRemote(ctx, a["repo_path"], a["account"])
			},
		},
		{
			def: mcp.NewTool("switch_account",
				mcp.WithDescription("Switch the active gh CLI account"),
				mcp.WithString("account", mcp.Required(), mcp.Description("GitHub username"))),
			run: func(ctx context.Context, ops Operations, a args) (string, error) {
				return ops.SwitchAccount(ctx, a["account"])
			},
		},
		{
			def: mcp.NewTool("repair_links",
				mcp.WithDescription("Point both live paths at the same profile again"),
				mcp.WithString("profile_name", mcp.Description("Profile to repair to; defaults to the data tree's active profile"))),
			run: func(ctx context.Context, ops Operations, a args) (string, error) {
				return ops.Repair(ctx, a["profile_name"])
			},
		},
	}
}

// New는 ops를 도구로 등록한 MCP 서버를 생성한다.
func New(ops Operations, version string) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)
	for _, t := range tools() {
		s.AddTool(t.def, handler(ops, t))
	}
	s.AddResource(
		mcp.NewResource(ProfilesURI, "Profiles Overview",
			mcp.WithResourceDescription("OS, paths, profiles, identity bindings, active profile and account, app state"),
			mcp.WithMIMEType("application/json")),
		resourceHandler(ops),
	)
	return s
}

// handler는 작업 결과를 텍스트 결과로, 에러를 isError 텍스트 결과로 바꾼다.
func handler(ops Operations, t tool) server.ToolHandlerFunc {
	log := logging.Component("mcp")
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		a := args{}
		for _, p := range stringParams(t.def) {
			a[p] = req.GetString(p, "")
		}
		for _, p := range t.def.InputSchema.Required {
			if a[p] == "" {
				return mcp.NewToolResultError(fmt.Sprintf("Error: missing required argument %q", p)), nil
			}
		}
		log.Debug().Str("tool", t.def.Name).Msg("도구 호출")
		out, err := t.run(ctx, ops, a)
		if err != nil {
			log.Warn().Err(err).Str("tool", t.def.Name).Msg("도구 실패")
			return mcp.NewToolResultError("Error: " + err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

func resourceHandler(ops Operations) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := ops.SnapshotJSON(ctx)
		if err != nil {
			return nil, fmt.Errorf("mcpserver: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: ProfilesURI, MIMEType: "application/json", Text: text},
		}, nil
	}
}

func stringParams(t mcp.Tool) []string {
	names := make([]string, 0, len(t.InputSchema.Properties))
	for name := range t.InputSchema.Properties {
		names = append(names, name)
	}
	return names
}

// Serve는 in/out 위에서 stdio MCP 서버를 ctx가 끝날 때까지 실행한다.
// stdout은 프로토콜 전용이므로 로그는 stderr/파일로만 나가야 한다.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s).Listen(ctx, in, out)
}
